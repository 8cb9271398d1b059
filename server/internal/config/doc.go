// Package config loads the server-side configuration from the `server:` section
// of config.yaml (the `agent:` key is ignored by the server binary).
//
// Config fields:
//   - HTTPPort              port for the dashboard, REST API and WebSocket hub (default 5000)
//   - Auth.Mode             "apikey" or "none"; guards the write routes only
//   - Auth.KeyEnv           environment variable holding the expected API key
//   - Auth.Header           HTTP header name (default "x-api-key")
//   - CORS.AllowedOrigins   origins allowed to call the API (default ["*"])
//   - Ledger.ResetInterval  clear all counts this often (default 0 = never)
//   - Hub.Interval          WebSocket push period (default 5s)
//   - Chart.Width/Height    chart size in inches (default 10x5)
//   - Advisor.*             Gemini endpoint, model, key env, timeout, retries
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, fn) reloads on change and hands the new config to fn.
package config
