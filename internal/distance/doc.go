// Package distance converts binary segmentation masks into signed Euclidean
// distance fields for boundary-aware training losses.
//
// # Signed Field
//
// For a mask M the field F has the same shape and:
//   - F = d(x) at background locations, where d(x) is the exact Euclidean
//     distance to the nearest foreground location (F >= 0)
//   - F = h - d(x) at foreground locations, where d(x) is the exact
//     Euclidean distance to the nearest background location and h is the
//     grid step (F <= 0)
//
// With unit spacing h is 1, so the foreground layer touching the boundary is
// 0, the next layer inward -1, and so on. With Options.Spacing, h is the
// smallest spacing among axes longer than one element: no foreground
// location lies closer than h to the background, so the boundary layer stays
// at exactly 0. Multiplying a probability map by F and averaging
// penalises probability placed far outside the true region and rewards
// probability placed deep inside it.
//
// # Edge Cases
//
//   - A mask without foreground yields an all-zero field. This is a policy,
//     not an error: an empty label simply contributes nothing to the loss.
//   - A mask without background yields an all-zero field as well, since no
//     boundary exists to measure against.
//   - Any nonzero mask value counts as foreground. Soft masks must be
//     binarized by the caller.
//
// # Algorithm
//
// Distances are exact, not chamfer approximations. Transform computes the
// squared Euclidean distance transform with the separable lower-envelope
// algorithm of Felzenszwalb and Huttenlocher: one 1-D pass per axis over
// every line of the array, each pass O(n) in the line length. The square
// root is taken once at the end. The total cost is O(N * rank) for N
// elements, for any rank.
//
// # Thread Safety
//
// All functions are pure: they allocate their outputs and never write to the
// input mask, so they may be called concurrently.
package distance
