package ui

import (
	"math"
	"strings"
)

// IndexPage is the page served for a directory.
const IndexPage = "index.html"

// CurrentPage returns the name of the page at the given URL path:
// its last path segment, or IndexPage for a directory.
func CurrentPage(urlPath string) string {
	if i := strings.LastIndexByte(urlPath, '/'); i >= 0 {
		urlPath = urlPath[i+1:]
	}
	if urlPath == "" {
		return IndexPage
	}
	return urlPath
}

// IsActive reports whether a navigation link with the given href
// points to the current page.
// Hrefs are compared as written, without resolving them.
func IsActive(currentPage, href string) bool {
	if currentPage == "" {
		currentPage = IndexPage
	}
	return href == currentPage
}

// IsContentPage reports whether the page at the given URL path
// is a content page rather than the site's landing page.
// Only content pages get print buttons and progress bars.
func IsContentPage(urlPath string) bool {
	return urlPath != "/" && urlPath != "" && !strings.HasSuffix(urlPath, IndexPage)
}

// IsInternalAnchor reports whether clicking a link with the given href
// should scroll within the page.
// A bare "#" is left to the browser.
func IsInternalAnchor(href string) bool {
	return len(href) > 1 && href[0] == '#'
}

// ScrollTop returns the document offset to scroll to
// so that an element sits right below a fixed header.
//
// targetTop is the element's offset from the top of the viewport,
// pageYOffset is the current scroll position.
func ScrollTop(targetTop, pageYOffset, headerHeight float64) float64 {
	return targetTop + pageYOffset - headerHeight
}

// Progress reports how far the reader has scrolled through a document,
// as a percentage in [0, 100],
// along with the value to report as aria-valuenow.
//
// A document that fits in the window has no progress to report.
func Progress(scrollTop, docHeight, winHeight float64) (percent float64, valueNow int) {
	scrollable := docHeight - winHeight
	if scrollable <= 0 {
		return 0, 0
	}

	percent = math.Max(0, math.Min(100, scrollTop/scrollable*100))
	return percent, int(math.Round(percent))
}

// ReduceMotion reports whether animations should be shortened
// for a connection, given the browser's network quality hints.
func ReduceMotion(saveData bool, effectiveType string) bool {
	return saveData ||
		strings.Contains(effectiveType, "2g") ||
		strings.Contains(effectiveType, "3g")
}

// MinTapTarget is the smallest size, in pixels,
// of tappable controls on touch devices.
const MinTapTarget = 44
