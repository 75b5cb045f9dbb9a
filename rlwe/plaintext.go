package rlwe

import (
	"fmt"
	"math"

	"github.com/vingstar/SEAL/utils"
	"github.com/vingstar/SEAL/utils/bignum"
)

// DefaultScale is the scale of a newly created [Plaintext].
const DefaultScale = 1.0

// Plaintext is a polynomial with 64-bit coefficients stored in a growable buffer.
// The capacity (allocated words) is tracked apart from the coefficient count
// (logical length) so that shrinking and re-growing does not reallocate.
//
// A Plaintext is either in coefficient form, with a zero [ParmsID], or in NTT
// form, bound to one level of a [Context] by a non-zero [ParmsID]. In NTT form the
// coefficients are len(Q) consecutive blocks of N words, one per modulus, and
// operations that would change the geometry of the polynomial fail.
// Only a [Transformer] moves a Plaintext between the two forms.
//
// The zero value is an empty plaintext in coefficient form allocating from
// [DefaultPool]; note that its scale is 0 until set.
//
// A Plaintext is not safe for concurrent mutation.
type Plaintext struct {
	coeffs     []uint64 // len(coeffs) is the capacity
	coeffCount int
	form       form
	scale      float64
	pool       MemoryPool
}

// Form is the encoding of the coefficients of a [Plaintext].
type Form int

const (
	// CoefficientForm stores the coefficients of the polynomial.
	CoefficientForm = Form(iota)
	// NTTForm stores the evaluations of the polynomial over each modulus of a level.
	NTTForm
)

// String returns the name of the form.
func (f Form) String() string {
	switch f {
	case CoefficientForm:
		return "CoefficientForm"
	case NTTForm:
		return "NTTForm"
	default:
		return fmt.Sprintf("Form(%d)", int(f))
	}
}

// form is the tagged encoding of a plaintext: only NTTForm carries a
// [ParmsID], which is never zero.
type form struct {
	kind    Form
	parmsID ParmsID
}

func coefficientForm() form {
	return form{kind: CoefficientForm}
}

// nttForm binds the plaintext to id. A zero id denotes coefficient form.
func nttForm(id ParmsID) form {
	if id.IsZero() {
		return coefficientForm()
	}
	return form{kind: NTTForm, parmsID: id}
}

// NewPlaintext returns an empty [Plaintext] allocating from pool.
func NewPlaintext(pool MemoryPool) (*Plaintext, error) {
	return NewPlaintextWithCapacity(0, 0, pool)
}

// NewPlaintextWithCount returns a zero [Plaintext] of coeffCount coefficients allocating from pool.
func NewPlaintextWithCount(coeffCount int, pool MemoryPool) (*Plaintext, error) {
	return NewPlaintextWithCapacity(coeffCount, coeffCount, pool)
}

// NewPlaintextWithCapacity returns a zero [Plaintext] of coeffCount coefficients
// with room for capacity coefficients, allocating from pool.
func NewPlaintextWithCapacity(capacity, coeffCount int, pool MemoryPool) (pt *Plaintext, err error) {

	if pool == nil {
		return nil, fmt.Errorf("cannot NewPlaintext: %w: memory pool is nil", ErrInvalidArgument)
	}

	if coeffCount < 0 || capacity < 0 {
		return nil, fmt.Errorf("cannot NewPlaintext: %w: capacity=%d and coeffCount=%d must be non-negative", ErrInvalidArgument, capacity, coeffCount)
	}

	if capacity < coeffCount {
		return nil, fmt.Errorf("cannot NewPlaintext: %w: capacity=%d is smaller than coeffCount=%d", ErrInvalidArgument, capacity, coeffCount)
	}

	pt = &Plaintext{scale: DefaultScale, pool: pool}

	if pt.coeffs, err = pool.Allocate(capacity); err != nil {
		return nil, fmt.Errorf("cannot NewPlaintext: %w", err)
	}

	pt.coeffCount = coeffCount

	return
}

// NewPlaintextFromHex returns a new [Plaintext] allocating from pool and holding
// the polynomial described by s. See [Plaintext.SetHex] for the grammar.
func NewPlaintextFromHex(s string, pool MemoryPool) (pt *Plaintext, err error) {

	if pt, err = NewPlaintext(pool); err != nil {
		return
	}

	if err = pt.SetHex(s); err != nil {
		return nil, err
	}

	return
}

// Pool returns the memory pool of the plaintext.
func (pt *Plaintext) Pool() MemoryPool {
	return pt.memPool()
}

// memPool returns the pool of the plaintext, [DefaultPool] for the zero value.
func (pt *Plaintext) memPool() MemoryPool {
	if pt.pool == nil {
		return DefaultPool()
	}
	return pt.pool
}

// Form returns the encoding of the coefficients.
func (pt *Plaintext) Form() Form {
	return pt.form.kind
}

// CoeffCount returns the number of coefficients of the plaintext.
func (pt *Plaintext) CoeffCount() int {
	return pt.coeffCount
}

// Capacity returns the number of coefficients the plaintext can hold without reallocating.
func (pt *Plaintext) Capacity() int {
	return len(pt.coeffs)
}

// ParmsID returns the identifier of the parameters the plaintext is bound to,
// or [ParmsIDZero] if the plaintext is in coefficient form.
func (pt *Plaintext) ParmsID() ParmsID {
	return pt.form.parmsID
}

// IsNTTForm returns true if the plaintext is in NTT form.
func (pt *Plaintext) IsNTTForm() bool {
	return pt.form.kind == NTTForm
}

// Scale returns the scaling factor of the plaintext.
func (pt *Plaintext) Scale() float64 {
	return pt.scale
}

// SetScale sets the scaling factor of the plaintext.
func (pt *Plaintext) SetScale(scale float64) {
	pt.scale = scale
}

// LogScale returns log2 of the scaling factor.
// It returns NaN if the scale is not a finite positive number.
func (pt *Plaintext) LogScale() float64 {
	if !(pt.scale > 0) || math.IsInf(pt.scale, 0) {
		return math.NaN()
	}
	logScale, _ := bignum.Log2(bignum.NewFloat(pt.scale, logQPrec)).Float64()
	return logScale
}

func (pt *Plaintext) checkCoeffForm(op string) error {
	if pt.IsNTTForm() {
		return fmt.Errorf("cannot %s: %w: plaintext is in NTT form", op, ErrIllegalState)
	}
	return nil
}

// reallocate moves the coefficients to a new allocation of exactly capacity words.
// The first min(coeffCount, capacity) coefficients are preserved.
func (pt *Plaintext) reallocate(capacity int) (err error) {

	var buff []uint64
	if buff, err = pt.memPool().Allocate(capacity); err != nil {
		return
	}

	copy(buff, pt.coeffs[:utils.Min(pt.coeffCount, capacity)])

	pt.memPool().Free(pt.coeffs)
	pt.coeffs = buff
	pt.coeffCount = utils.Min(pt.coeffCount, capacity)

	return
}

// replace swaps in buff as the new storage holding coeffCount coefficients.
func (pt *Plaintext) replace(buff []uint64, coeffCount int) {
	pt.memPool().Free(pt.coeffs)
	pt.coeffs = buff
	pt.coeffCount = coeffCount
}

// Reserve ensures the plaintext can hold capacity coefficients without reallocating.
// The capacity is never reduced.
func (pt *Plaintext) Reserve(capacity int) (err error) {

	if capacity < 0 {
		return fmt.Errorf("cannot Reserve: %w: capacity %d is negative", ErrInvalidArgument, capacity)
	}

	if err = pt.checkCoeffForm("Reserve"); err != nil {
		return
	}

	if capacity <= pt.Capacity() {
		return
	}

	if err = pt.reallocate(capacity); err != nil {
		return fmt.Errorf("cannot Reserve: %w", err)
	}

	return
}

// Resize sets the coefficient count, growing the capacity to exactly coeffCount if needed.
// Newly exposed coefficients are zero.
func (pt *Plaintext) Resize(coeffCount int) (err error) {

	if coeffCount < 0 {
		return fmt.Errorf("cannot Resize: %w: coefficient count %d is negative", ErrInvalidArgument, coeffCount)
	}

	if err = pt.checkCoeffForm("Resize"); err != nil {
		return
	}

	if coeffCount > pt.Capacity() {
		if err = pt.reallocate(coeffCount); err != nil {
			return fmt.Errorf("cannot Resize: %w", err)
		}
	}

	if coeffCount > pt.coeffCount {
		clear(pt.coeffs[pt.coeffCount:coeffCount])
	}

	pt.coeffCount = coeffCount

	return
}

// ShrinkToFit reduces the capacity to the coefficient count.
func (pt *Plaintext) ShrinkToFit() (err error) {

	if pt.Capacity() == pt.coeffCount {
		return
	}

	if err = pt.reallocate(pt.coeffCount); err != nil {
		return fmt.Errorf("cannot ShrinkToFit: %w", err)
	}

	return
}

// Release frees the coefficients and resets the plaintext to an empty
// polynomial in coefficient form with the default scale.
func (pt *Plaintext) Release() {
	pt.memPool().Free(pt.coeffs)
	pt.coeffs = nil
	pt.coeffCount = 0
	pt.form = coefficientForm()
	pt.scale = DefaultScale
}

// SetZero sets all the coefficients to zero.
func (pt *Plaintext) SetZero() {
	clear(pt.coeffs[:pt.coeffCount])
}

// SetZeroFrom sets the coefficients from index start to the end to zero.
func (pt *Plaintext) SetZeroFrom(start int) error {
	if start < 0 || start > pt.coeffCount {
		return fmt.Errorf("cannot SetZero: %w: start=%d is not in [0, %d]", ErrOutOfRange, start, pt.coeffCount)
	}
	return pt.SetZeroRange(start, pt.coeffCount-start)
}

// SetZeroRange sets the length coefficients starting at index start to zero.
func (pt *Plaintext) SetZeroRange(start, length int) error {

	if start < 0 || length < 0 || start > pt.coeffCount || length > pt.coeffCount-start {
		return fmt.Errorf("cannot SetZero: %w: range [%d, %d+%d) exceeds coefficient count %d", ErrOutOfRange, start, start, length, pt.coeffCount)
	}

	clear(pt.coeffs[start : start+length])

	return nil
}

// At returns the i-th coefficient.
func (pt *Plaintext) At(i int) (uint64, error) {
	if i < 0 || i >= pt.coeffCount {
		return 0, fmt.Errorf("cannot At: %w: index %d is not in [0, %d)", ErrOutOfRange, i, pt.coeffCount)
	}
	return pt.coeffs[i], nil
}

// Set sets the i-th coefficient to v.
func (pt *Plaintext) Set(i int, v uint64) error {
	if i < 0 || i >= pt.coeffCount {
		return fmt.Errorf("cannot Set: %w: index %d is not in [0, %d)", ErrOutOfRange, i, pt.coeffCount)
	}
	pt.coeffs[i] = v
	return nil
}

// Coeffs returns the coefficients of the plaintext. The returned slice aliases
// the plaintext storage and is only valid until the next operation changing its size.
func (pt *Plaintext) Coeffs() []uint64 {
	return pt.coeffs[:pt.coeffCount]
}

// SetCoeffs sets the coefficients of the plaintext to a copy of coeffs.
func (pt *Plaintext) SetCoeffs(coeffs []uint64) (err error) {

	if err = pt.checkCoeffForm("SetCoeffs"); err != nil {
		return
	}

	if err = pt.Resize(len(coeffs)); err != nil {
		return fmt.Errorf("cannot SetCoeffs: %w", err)
	}

	copy(pt.coeffs, coeffs)

	return
}

// SetConstant sets the plaintext to the constant polynomial v.
func (pt *Plaintext) SetConstant(v uint64) (err error) {

	if err = pt.checkCoeffForm("SetConstant"); err != nil {
		return
	}

	if err = pt.Resize(1); err != nil {
		return fmt.Errorf("cannot SetConstant: %w", err)
	}

	pt.coeffs[0] = v

	return
}

// IsZero returns true if all the coefficients are zero.
func (pt *Plaintext) IsZero() bool {
	return pt.SignificantCoeffCount() == 0
}

// SignificantCoeffCount returns the index of the highest non-zero coefficient plus one.
func (pt *Plaintext) SignificantCoeffCount() int {
	for i := pt.coeffCount - 1; i >= 0; i-- {
		if pt.coeffs[i] != 0 {
			return i + 1
		}
	}
	return 0
}

// NonzeroCoeffCount returns the number of non-zero coefficients.
func (pt *Plaintext) NonzeroCoeffCount() (count int) {
	for _, c := range pt.coeffs[:pt.coeffCount] {
		if c != 0 {
			count++
		}
	}
	return
}

// Equal returns true if both plaintexts have the same significant coefficients and
// the same [ParmsID]. Trailing zero coefficients are ignored.
func (pt *Plaintext) Equal(other *Plaintext) bool {

	if pt == nil || other == nil {
		return pt == other
	}

	if pt.form != other.form {
		return false
	}

	n := pt.SignificantCoeffCount()

	if n != other.SignificantCoeffCount() {
		return false
	}

	return utils.EqualSlice(pt.coeffs[:n], other.coeffs[:n])
}

// Copy copies other on the receiver. The receiver keeps its own storage
// and memory pool and grows it if needed.
func (pt *Plaintext) Copy(other *Plaintext) (err error) {

	if other == nil {
		return fmt.Errorf("cannot Copy: %w: other is nil", ErrInvalidArgument)
	}

	if pt == other {
		return
	}

	if other.coeffCount > pt.Capacity() {

		var buff []uint64
		if buff, err = pt.memPool().Allocate(other.coeffCount); err != nil {
			return fmt.Errorf("cannot Copy: %w", err)
		}

		pt.memPool().Free(pt.coeffs)
		pt.coeffs = buff
	}

	copy(pt.coeffs, other.coeffs[:other.coeffCount])

	pt.coeffCount = other.coeffCount
	pt.form = other.form
	pt.scale = other.scale

	return
}

// CopyNew returns a deep copy of the plaintext allocated from the same pool.
func (pt *Plaintext) CopyNew() (*Plaintext, error) {

	cpy, err := NewPlaintextWithCapacity(pt.coeffCount, 0, pt.memPool())
	if err != nil {
		return nil, fmt.Errorf("cannot CopyNew: %w", err)
	}

	if err = cpy.Copy(pt); err != nil {
		return nil, fmt.Errorf("cannot CopyNew: %w", err)
	}

	return cpy, nil
}
