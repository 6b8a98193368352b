// Package invitepdf captures live, client-rendered invitation pages as
// pixel-accurate PDF documents using headless Chrome.
//
// # Quick Start
//
// Create a service, render a URL, and close when done:
//
//	svc, err := invitepdf.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	result, err := svc.Generate(ctx, invitepdf.RenderRequest{
//	    URL: "https://invites.example.com/ana-and-luis",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("invitation.pdf", result.PDF, 0644)
//
// The result carries the PDF bytes plus generation metadata (byte size,
// elapsed time, resolved device and quality keys).
//
// # Render Pipeline
//
// Each render runs through these stages on its own browser page:
//
//  1. URL validation and device/quality resolution (no browser touched yet)
//  2. Page emulation from the device profile (viewport, pixel ratio, UA, touch)
//  3. Navigation with a capture-mode query marker
//  4. Optional custom-data injection into client-side storage, then reload
//  5. Capture-mode CSS: normalization plus hide rules for sections that
//     cannot function in a static document
//  6. Readiness stages gated by the quality preset (fonts, images, background
//     images, framework hydration, content-height stability, settle wait)
//  7. Height measurement and pixel snapping for custom-sized devices
//  8. PDF capture with backgrounds printed and zero margins unless overridden
//
// Readiness stages are best-effort: a stage that times out is logged and
// skipped, never fatal. Only the coarse per-request timeout from the quality
// preset fails the render.
//
// # Devices and Qualities
//
// Device profiles and quality presets load from embedded YAML catalogs and
// are resolved by key, with human-friendly aliases ("mobile", "premium"):
//
//	result, err := svc.Generate(ctx, invitepdf.RenderRequest{
//	    URL:        url,
//	    DeviceKey:  "invitation_mobile",
//	    QualityKey: "high",
//	})
//
// # Parallel Rendering
//
// For batch work, ServicePool manages multiple browser instances:
//
//	pool := invitepdf.NewServicePool(4)
//	defer pool.Close()
//
//	svc, err := pool.Acquire()
//	defer pool.Release(svc)
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The go-rod library downloads a managed
// Chromium on first run (~/.cache/rod/browser/). For containers and CI, set
// INVITEPDF_BROWSER_BIN to a pre-installed binary; the sandbox is disabled
// automatically when CI is set or a custom binary is configured.
package invitepdf
