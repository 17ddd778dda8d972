// Package http contains the HTTP handlers of the simulation server. The
// prediction endpoint speaks the simulator's flat JSON error dialect;
// everything else renders through chi middleware and render helpers.
package http
