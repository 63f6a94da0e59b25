// Package inspect classifies decoded image buffers as blank or
// visible. The resolution pipeline uses it to reject technically
// successful but visually empty icon lookups so the next fallback tier
// gets a chance.
//
// A pixel is visible when its alpha clears a low floor and its color
// is not near-white. Near-white is treated as background because
// document renderers and shell icon APIs both pad results with white.
package inspect
