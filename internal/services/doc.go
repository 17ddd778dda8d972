// Package services holds the business logic behind the HTTP surface:
// running policy simulations against the trained pipelines and reporting
// service readiness.
package services
