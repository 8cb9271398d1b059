// Package config loads and watches the agent section of config.yaml.
//
// Load(path) reads the file, applies defaults (60s poll, buffer of 100
// batches, gzip on, DevTools target list on localhost:9222), then validates
// required fields and enums. Secrets are referenced by environment variable
// name and resolved through Key(), Token() and Password().
//
// Watch(ctx, path, onChange) uses fsnotify to detect saves and calls
// onChange with the newly parsed Config. It watches the parent directory so
// atomic-save editors (write temp file, rename over) are still seen.
package config
