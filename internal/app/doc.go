// Package app assembles the simulation server from its parts and owns
// its lifecycle.
package app
