package htmlposter

// snapshotCSS is injected into every document before capture. It is fixed
// by contract, not user-configurable:
//
//   - glass panels become opaque: translucent backdrop-filter surfaces blur
//     differently across renderers and scale factors, so they are replaced
//     with a near-white fill and a soft shadow
//   - text rendering is forced to geometric precision with antialiased
//     smoothing, since subpixel hinting assumes an on-screen pixel grid
//   - the interactive control panel is hidden so it never appears in
//     exported artifacts
const snapshotCSS = `.glass-panel {
    background: rgba(255, 255, 255, 0.96) !important;
    backdrop-filter: none !important;
    -webkit-backdrop-filter: none !important;
    box-shadow: 0 8px 30px rgba(0,0,0,0.08) !important;
}
body, #poster {
    text-rendering: geometricPrecision;
    -webkit-font-smoothing: antialiased;
}
#control-panel {
    display: none !important;
}`

// SnapshotCSS returns the style override applied to every render.
func SnapshotCSS() string {
	return snapshotCSS
}
