// Package htmlposter exports self-contained HTML posters as high-resolution
// PNG images by driving headless Chrome (Chrome DevTools Protocol).
//
// The input is a local HTML document whose relative resources (images,
// stylesheets, fonts) sit next to it on disk, or a ZIP archive bundling the
// document together with those resources.
//
// # Rendering
//
// For one-off exports use the package-level helpers:
//
//	res, err := htmlposter.Render(ctx, &htmlposter.RenderRequest{
//	    DocumentPath: "poster.html",
//	})
//
// For repeated exports create a [Renderer], which reuses the browser process:
//
//	r, err := htmlposter.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	res, err := r.Render(ctx, &htmlposter.RenderRequest{DocumentPath: "poster.html"})
//	res, err  = r.RenderArchive(ctx, "poster-bundle.zip", nil)
//
// A [RenderRequest] controls pixel density, the capture target, and the
// browser viewport. Density presets match common print workflows:
//
//	req := &htmlposter.RenderRequest{
//	    DocumentPath: "poster.html",
//	    Density:      htmlposter.UltraPrint, // 600 ppi
//	    Selector:     "#poster",
//	}
//
// The renderer navigates to the document over the file:// scheme, waits for
// network idleness, injects a fixed snapshot stylesheet (opaque panels,
// geometric text rendering, hidden control surfaces), waits for fonts, and
// screenshots the target element. When the target selector is absent the
// full viewport is captured instead.
//
// A [Result] gives flexible access to the PNG bytes:
//
//	res.Bytes()                       // []byte
//	res.Dimensions()                  // true pixel width and height
//	res.Reader()                      // *bytes.Reader
//	res.WriteTo(w)                    // io.WriterTo
//	res.WriteToFile("out.png", 0o644) // write to disk
//
// Use [Export] to persist the image under a conventional name embedding the
// source stem and density, and to report the decoded dimensions:
//
//	info, err := htmlposter.Export(res, "out")
//	fmt.Println(info.Summary())
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload]:
//
//	r, err := htmlposter.NewRenderer(htmlposter.WithAutoDownload())
package htmlposter
