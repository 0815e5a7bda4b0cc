// Package tax computes income tax under slab-based regimes.
//
// A Calculator is built once from a Regime and is then safe for concurrent
// use: every method is a pure function of its arguments and the immutable
// regime tables. Individuals are taxed by walking the regime's progressive
// slab table, applying the low-income rebate and then the cess. Companies
// and other non-individual entities pay a flat rate plus cess.
//
// All money is carried as decimal.Decimal. Values reported in a Trace are
// rounded to two places; intermediate sums are kept exact.
package tax
