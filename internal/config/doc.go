// Package config provides centralized configuration and path management for
// the policy simulation pipeline.
//
// Configuration is loaded from environment variables with the POLICYSIM
// prefix, optionally merged over a policysim.yaml file. Paths are resolved
// once through GetPaths and shared by every pipeline command so that the
// fetcher, processor, merger, trainer and web server all agree on where the
// per-source artifacts and the master dataset live.
package config
