package rlwe

var (
	logN = 10
	qi   = []uint64{0x200000440001, 0x7fff80001, 0x800280001, 0x7ffd80001, 0x7ffc80001}

	// testParamsLiteral is the default set of parameters used by the tests of this package.
	testParamsLiteral = []ParametersLiteral{
		{
			Scheme:           SchemeBFV,
			LogN:             logN,
			Q:                qi,
			PlaintextModulus: 0x10001,
		},
		{
			Scheme:           SchemeBGV,
			LogN:             4,
			LogQ:             []int{30, 30},
			PlaintextModulus: 0x101,
		},
		{
			Scheme: SchemeCKKS,
			LogN:   logN,
			Q:      qi[:3],
		},
	}
)
