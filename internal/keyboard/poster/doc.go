// Package poster delivers synthetic key events to the OS input queue:
// CoreGraphics on macOS, robotgo elsewhere.
package poster
