// Package render produces tightly cropped raster images of 3D objects.
//
// An ImageRenderer isolates an object on a dedicated render layer, frames it with
// an orthographic camera derived from its world bounds, renders it through a
// Rasterizer at 4x supersampling and crops it to the requested margins. The
// host scene and the rasterizer are collaborators supplied by the caller; all
// scene state touched during a batch is restored before RenderImages returns.
package render
