// Package overlap builds the view overlap graph and its ambiguity weights.
//
// For views m ≠ m' sharing the point set S (n_Utilde_Utilde[m,m'] = |S| > 0):
//
//	W[m,m'] = σ_min( V̄_mᵀ · V̄_m' )
//
// where V_m = eval(m, S) and V̄ is V with its column means removed. Small W
// means an ambiguous (less reliable) alignment. Overlaps with fewer than d+1
// points get W = 0 without touching the SVD.
//
// The sorted pair list is split into n_proc contiguous chunks (parallel.ForEach);
// each worker writes only its own index range of a shared weight slice and
// the results are merged by index, so the output does not depend on n_proc.
//
// The returned Graph carries one edge per pair with W > 0; pairs with W = 0
// are not support for the spanning forest.
package overlap
