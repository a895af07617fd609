// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Hand-gesture tilt and pinch zoom over WebSocket, landmark replay, live config reload
// 0.2.0 - Procedural surfaces, asteroid belt density control, comets, bright-star backdrop
// 0.1.0 - Initial release: half-block ray-traced orrery, preset views, focus chase, headless modes
