// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ebitenmask integrates a tilemask engine with Ebitengine
// rendering and input.
//
// The package bridges the CPU-side mask state to the GPU the same way
// every frame:
//
//	tilemask.Engine (composite) -> pixel expansion -> *ebiten.Image -> screen
//
// # Architecture
//
// View owns one tilemask.Engine and manages the texture upload
// pipeline:
//
//   - Update() maps mouse state to Begin/Extend/End and pumps the
//     engine's throttled work
//   - Image() lazily re-expands and re-uploads the composite whenever
//     the engine reports a new build generation
//   - Draw() blits the mask tinted at its world origin and overlays
//     marching-ants contour previews animated with a looping tween
//
// # Usage
//
//	view := ebitenmask.NewView(tilemask.New())
//
//	func (g *Game) Update() error {
//		view.Update()
//		return nil
//	}
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		view.Draw(screen)
//	}
//
// # Thread Safety
//
// View is NOT safe for concurrent use. Drive it from the Ebitengine
// game loop only.
package ebitenmask
