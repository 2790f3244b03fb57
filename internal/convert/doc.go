// Package convert re-encodes extracted comic pages to WebP.
//
// Eligible pages are .jpg, .jpeg, .jxl, .png and .gif files directly inside
// the workspace. Animated GIFs go through gif2webp, everything else through
// cwebp. Output lands beside the source as <stem>.webp; sources are kept.
package convert
