// Package batch runs icon resolutions for whole directory listings
// under a cancel-and-replace coordinator: submitting a new listing
// supersedes the one in flight.
package batch
