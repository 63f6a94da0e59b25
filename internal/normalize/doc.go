// Package normalize composites resolved icons into fixed-size output
// canvases under the dense and compact visual profiles.
package normalize
