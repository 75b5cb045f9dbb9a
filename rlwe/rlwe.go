// Package rlwe implements the plaintext polynomial container of the RLWE-based
// homomorphic encryption schemes (BFV, BGV and CKKS), along with the encryption
// parameters and the parameter context it is validated against.
//
// A [Plaintext] is either in coefficient form, in which case its [ParmsID] is
// [ParmsIDZero], or in NTT form, in which case its [ParmsID] names the level of
// the modulus chain its coefficients are expressed over. Only a [Transformer]
// can move a plaintext between the two forms.
package rlwe
