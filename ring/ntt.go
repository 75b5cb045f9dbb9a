package ring

// NTT evaluates p1 in the NTT domain of the negacyclic ring Z_q[X]/(X^N+1)
// and writes the result on p2. p1 must be reduced modulo q and both slices
// must hold exactly N coefficients. p1 and p2 can be the same slice.
func (s *SubRing) NTT(p1, p2 []uint64) {

	if &p1[0] != &p2[0] {
		copy(p2, p1)
	}

	N := s.N
	q := s.Modulus
	brc := s.BRedConstant
	roots := s.RootsForward

	var j1, j2 int
	var U, V, W uint64

	for m, t := 1, N>>1; m < N; m, t = m<<1, t>>1 {
		for i := 0; i < m; i++ {

			j1 = 2 * i * t
			j2 = j1 + t
			W = roots[m+i]

			for j := j1; j < j2; j++ {
				U = p2[j]
				V = BRed(p2[j+t], W, q, brc)
				p2[j] = CRed(U+V, q)
				p2[j+t] = CRed(U+q-V, q)
			}
		}
	}
}

// INTT evaluates p1 from the NTT domain back to the coefficient domain and
// writes the result on p2. p1 and p2 can be the same slice.
func (s *SubRing) INTT(p1, p2 []uint64) {

	if &p1[0] != &p2[0] {
		copy(p2, p1)
	}

	N := s.N
	q := s.Modulus
	brc := s.BRedConstant
	roots := s.RootsBackward

	var j1, j2, h int
	var U, V, W uint64

	for m, t := N, 1; m > 1; m, t = m>>1, t<<1 {

		j1 = 0
		h = m >> 1

		for i := 0; i < h; i++ {

			j2 = j1 + t
			W = roots[h+i]

			for j := j1; j < j2; j++ {
				U = p2[j]
				V = p2[j+t]
				p2[j] = CRed(U+V, q)
				p2[j+t] = BRed(CRed(U+q-V, q), W, q, brc)
			}

			j1 += t << 1
		}
	}

	for j := 0; j < N; j++ {
		p2[j] = BRed(p2[j], s.NInv, q, brc)
	}
}
