package release

// Release describes one published release from the feed: a version tag, a
// publish timestamp and the downloadable assets attached to it. Releases are
// fetched fresh every run and never cached.
type Release struct {
	// TagName is the version tag, e.g. "M130.0.6723.0".
	TagName string `json:"tag_name"`
	// PublishedAt is the publish timestamp as reported by the feed.
	PublishedAt string `json:"published_at"`
	// Assets are the files attached to this release, one per capability tier.
	Assets []Asset `json:"assets"`
}

// Asset is a single downloadable file attached to a release.
type Asset struct {
	// Name is the asset file name, e.g. "thorium-avx2-installer.exe".
	Name string `json:"name"`
	// BrowserDownloadURL is the direct download URL.
	BrowserDownloadURL string `json:"browser_download_url"`
}
