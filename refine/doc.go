// Package refine runs the convergence-driven refinement loop over a
// caller-owned State.
//
// One iteration:
//
//  1. Flag far-off points (align.FarOffPoints).
//  2. Utilde_t = Utilde ⊙ Utildeg when tearing; far-off points keep their
//     full Utilde membership.
//  3. Run the refine algorithm and rebuild y.
//  4. When computing errors, or on the last allowed iteration, record the
//     mean alignment error over Utilde_t. Patience drops by one when the
//     error moved less than err_tol and resets otherwise.
//  5. Spread clusters along x.
//  6. Recompute Utildeg, the tear graph and the colouring from the new y.
//  7. Hand the frame to the visual sink.
//  8. Stop with Converged when patience hits 0 (only while computing
//     errors) or with IterationBudgetExhausted after max_iter iterations.
//
// repel_by decays by repel_decay every iteration.
//
// Run is resumable: each call performs up to max_iter further iterations
// from the stored State, keeping its telemetry unless reset is requested.
// Running a Converged state is a no-op.
package refine
