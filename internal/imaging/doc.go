// Package imaging loads images for the MCP server and renders symmetry
// results back into images.
//
// It covers:
//   - ImageCache: thread-safe cache of decoded images keyed by path
//   - ParseRegion and CropRegion: restrict detection to part of an image
//   - AxisRenderer: draws a detected mirror line (implements symmetry.Renderer)
//   - RenderMatches: the image and its reflection side by side with the
//     strongest feature matches joined
//   - PlotVotes: scatter of (r, θ) votes coloured by bin density
//
// # Coordinate System
//
// Pixel coordinates are 0-based relative to the image origin:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// An axis (r, θ) is the set of points with x·cosθ + y·sinθ = r in this
// coordinate system.
//
// # Output
//
// Rendered images are returned either as image.Image values or, for MCP
// responses, as ImageResult values holding base64-encoded PNG data.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Rendering functions never modify
// their inputs and can be called concurrently.
package imaging
