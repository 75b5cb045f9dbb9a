package ring

import (
	"fmt"
	"math/big"
	"math/bits"
)

// MaxModulusBits is the largest bit-size of an NTT-friendly modulus.
const MaxModulusBits = 61

// IsPrime applies the Baillie-PSW, which is 100% accurate for numbers bellow 2^64.
func IsPrime(x uint64) bool {
	return new(big.Int).SetUint64(x).ProbablyPrime(0)
}

// IsNTTFriendly returns true if q is a prime congruent to 1 modulo NthRoot,
// where NthRoot is a power of two.
func IsNTTFriendly(q uint64, NthRoot int) bool {
	return q > 1 && q&uint64(NthRoot-1) == 1 && IsPrime(q)
}

// GenerateNTTPrimes generates n NthRoot NTT friendly primes given logQ = size of the primes.
// It will return all the appropriate primes, up to the number of n, with the
// best available deviation from the base power of 2 for the given n.
func GenerateNTTPrimes(logQ, NthRoot, n int) (primes []uint64, err error) {

	if logQ < 2 || logQ > MaxModulusBits {
		return nil, fmt.Errorf("cannot GenerateNTTPrimes: logQ=%d must be between 2 and %d", logQ, MaxModulusBits)
	}

	if logQ == MaxModulusBits {
		return GenerateNTTPrimesP(logQ, NthRoot, n)
	}

	return GenerateNTTPrimesQ(logQ, NthRoot, n)
}

// NextNTTPrime returns the next NthRoot NTT prime after q.
// The input q must be itself an NTT prime for the given NthRoot.
func NextNTTPrime(q uint64, NthRoot int) (qNext uint64, err error) {

	qNext = q + uint64(NthRoot)

	for !IsPrime(qNext) {

		qNext += uint64(NthRoot)

		if bits.Len64(qNext) > MaxModulusBits {
			return 0, fmt.Errorf("next NTT prime exceeds the maximum bit-size of %d bits", MaxModulusBits)
		}
	}

	return qNext, nil
}

// PreviousNTTPrime returns the previous NthRoot NTT prime before q.
// The input q must be itself an NTT prime for the given NthRoot.
func PreviousNTTPrime(q uint64, NthRoot int) (qPrev uint64, err error) {

	if q < uint64(NthRoot) {
		return 0, fmt.Errorf("previous NTT prime is smaller than NthRoot")
	}

	qPrev = q - uint64(NthRoot)

	for !IsPrime(qPrev) {

		if qPrev < uint64(NthRoot) {
			return 0, fmt.Errorf("previous NTT prime is smaller than NthRoot")
		}

		qPrev -= uint64(NthRoot)
	}

	return qPrev, nil
}

// GenerateNTTPrimesQ generates "levels" different NthRoot NTT-friendly
// primes starting from 2**LogQ and alternating between upward and downward.
func GenerateNTTPrimesQ(logQ, NthRoot, levels int) (primes []uint64, err error) {

	var nextPrime, previousPrime, Qpow2 uint64
	var checkfornextprime, checkforpreviousprime bool

	primes = []uint64{}

	Qpow2 = uint64(1 << logQ)

	nextPrime = Qpow2 + 1
	previousPrime = Qpow2 + 1

	checkfornextprime = true
	checkforpreviousprime = true

	for len(primes) < levels {

		if !(checkfornextprime || checkforpreviousprime) {
			return nil, fmt.Errorf("cannot GenerateNTTPrimesQ: not enough primes for logQ=%d and NthRoot=%d", logQ, NthRoot)
		}

		if checkfornextprime {

			if nextPrime > 0xffffffffffffffff-uint64(NthRoot) || bits.Len64(nextPrime+uint64(NthRoot)) > logQ+1 {

				checkfornextprime = false

			} else {

				nextPrime += uint64(NthRoot)

				if IsPrime(nextPrime) {

					primes = append(primes, nextPrime)

					if len(primes) == levels {
						return
					}
				}
			}
		}

		if checkforpreviousprime {

			if previousPrime < uint64(NthRoot) || bits.Len64(previousPrime-uint64(NthRoot)) < logQ {

				checkforpreviousprime = false

			} else {

				previousPrime -= uint64(NthRoot)

				if IsPrime(previousPrime) {

					primes = append(primes, previousPrime)
				}
			}
		}
	}

	return
}

// GenerateNTTPrimesP generates "levels" different NthRoot NTT-friendly
// primes starting from 2**LogP and downward.
// Special case were primes close to 2^{LogP} but with a smaller bit-size than LogP are sought.
func GenerateNTTPrimesP(logP, NthRoot, n int) (primes []uint64, err error) {

	var x, Ppow2 uint64

	primes = []uint64{}

	Ppow2 = uint64(1 << logP)

	x = Ppow2 + 1

	for len(primes) < n {

		// We start by subtracting 2N to ensure that the prime bit-length is smaller than LogP
		if x <= uint64(NthRoot) || bits.Len64(x-uint64(NthRoot)) < logP {
			return nil, fmt.Errorf("cannot GenerateNTTPrimesP: not enough primes for logP=%d and NthRoot=%d", logP, NthRoot)
		}

		x -= uint64(NthRoot)

		if IsPrime(x) {
			primes = append(primes, x)
		}
	}

	return
}
