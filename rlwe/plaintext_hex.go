package rlwe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const termSeparator = " + "

// MaxHexDegree is the largest degree accepted by [Plaintext.SetHex]: a polynomial
// in coefficient form has at most the largest supported ring degree 2^MaxLogN
// of coefficients.
const MaxHexDegree = 1<<MaxLogN - 1

// Hex returns the textual representation of the polynomial: the non-zero
// coefficients in upper-case hexadecimal, by decreasing degree, as in
// "7FFx^3 + 1x^1 + 3". The zero polynomial is "0".
// It fails with [ErrIllegalState] if the plaintext is in NTT form.
func (pt *Plaintext) Hex() (string, error) {

	if err := pt.checkCoeffForm("Hex"); err != nil {
		return "", err
	}

	var sb strings.Builder

	for i := pt.SignificantCoeffCount() - 1; i >= 0; i-- {

		c := pt.coeffs[i]

		if c == 0 {
			continue
		}

		if sb.Len() != 0 {
			sb.WriteString(termSeparator)
		}

		sb.WriteString(strings.ToUpper(strconv.FormatUint(c, 16)))

		if i != 0 {
			sb.WriteString("x^")
			sb.WriteString(strconv.Itoa(i))
		}
	}

	if sb.Len() == 0 {
		return "0", nil
	}

	return sb.String(), nil
}

// String implements [fmt.Stringer]. Plaintexts in NTT form, which have no
// textual representation, are described by their identifier and size.
func (pt *Plaintext) String() string {
	if pt.IsNTTForm() {
		return fmt.Sprintf("Plaintext{NTT, ParmsID=%s, CoeffCount=%d}", pt.form.parmsID, pt.coeffCount)
	}
	s, _ := pt.Hex()
	return s
}

// SetHex sets the plaintext to the polynomial described by s, in the format
// produced by [Plaintext.Hex]. Hexadecimal digits may be of either case.
// The coefficient count becomes the degree of the polynomial plus one
// (zero for "0"). Any deviation from the format fails with [ErrFormat] and
// leaves the plaintext untouched. Degrees above [MaxHexDegree] are rejected.
func (pt *Plaintext) SetHex(s string) (err error) {

	if err = pt.checkCoeffForm("SetHex"); err != nil {
		return
	}

	var degrees []int
	var values []uint64

	if degrees, values, err = parseHex(s); err != nil {
		return fmt.Errorf("cannot SetHex: %w", err)
	}

	coeffCount := 0
	if len(degrees) != 0 {
		coeffCount = degrees[0] + 1
	}

	if err = pt.Resize(coeffCount); err != nil {
		return fmt.Errorf("cannot SetHex: %w", err)
	}

	pt.SetZero()

	for i := range degrees {
		pt.coeffs[degrees[i]] = values[i]
	}

	return
}

// parseHex returns the degrees, by strictly decreasing order, and the values of the terms of s.
func parseHex(s string) (degrees []int, values []uint64, err error) {

	if s == "0" {
		return
	}

	if s == "" {
		return nil, nil, fmt.Errorf("%w: empty string", ErrFormat)
	}

	for i, term := range strings.Split(s, termSeparator) {

		hex, exp, hasExp := strings.Cut(term, "x^")

		var value uint64
		if value, err = parseHexCoeff(hex); err != nil {
			return nil, nil, fmt.Errorf("%w: term %d %q: %w", ErrFormat, i, term, err)
		}

		degree := 0
		if hasExp {
			if degree, err = parseDegree(exp); err != nil {
				return nil, nil, fmt.Errorf("%w: term %d %q: %w", ErrFormat, i, term, err)
			}
		}

		if i > 0 && degree >= degrees[i-1] {
			return nil, nil, fmt.Errorf("%w: term %d %q: degree %d does not decrease", ErrFormat, i, term, degree)
		}

		degrees = append(degrees, degree)
		values = append(values, value)
	}

	return
}

// parseHexCoeff parses a non-zero coefficient without leading zeros.
func parseHexCoeff(s string) (uint64, error) {

	if s == "" {
		return 0, errors.New("missing coefficient")
	}

	if s[0] == '0' {
		return 0, fmt.Errorf("coefficient %q is zero or has a leading zero", s)
	}

	for _, r := range s {
		if !isHexDigit(r) {
			return 0, fmt.Errorf("coefficient %q is not hexadecimal", s)
		}
	}

	value, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("coefficient %q overflows 64 bits", s)
	}

	return value, nil
}

// parseDegree parses a positive decimal exponent without sign nor leading zeros.
func parseDegree(s string) (int, error) {

	if s == "" {
		return 0, errors.New("missing exponent")
	}

	if s[0] == '0' {
		return 0, fmt.Errorf("exponent %q is zero or has a leading zero", s)
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("exponent %q is not a decimal number", s)
		}
	}

	degree, err := strconv.Atoi(s)
	if err != nil || degree > MaxHexDegree {
		return 0, fmt.Errorf("exponent %q exceeds %d", s, MaxHexDegree)
	}

	return degree, nil
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}
