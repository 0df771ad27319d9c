// Package layout turns a page's positioned tokens into a normalized,
// reading-order line sequence: tokens are clustered into lines by
// vertical proximity, partitioned into columns at the classifier's
// split positions, ordered column by column, and cleaned of pagination
// noise and line-wrap artifacts.
//
// The reading order produced here is the load-bearing assumption for
// the stateful segmentation stage: a token assigned to the wrong column
// corrupts delegation and person boundaries for the rest of the page.
package layout
