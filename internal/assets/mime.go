package assets

import "strings"

// htmlContentType is the type served for SPA routes and extensionless paths.
const htmlContentType = "text/html;charset=UTF-8"

// mimeTypes maps file extensions to the Content-Type used when the asset
// store does not supply one.
var mimeTypes = map[string]string{
	// Text
	".html": "text/html;charset=UTF-8",
	".css":  "text/css;charset=UTF-8",
	".js":   "application/javascript;charset=UTF-8",
	".mjs":  "application/javascript;charset=UTF-8",
	".json": "application/json;charset=UTF-8",
	".xml":  "application/xml;charset=UTF-8",
	".txt":  "text/plain;charset=UTF-8",

	// Images
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".ico":  "image/x-icon",
	".bmp":  "image/bmp",

	// Fonts
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".eot":   "application/vnd.ms-fontobject",

	// Media
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",

	// Documents
	".pdf": "application/pdf",
	".zip": "application/zip",
	".tar": "application/x-tar",
	".gz":  "application/gzip",
}

// typeByExtension returns the Content-Type for path's extension.
func typeByExtension(path string) (string, bool) {
	lower := strings.ToLower(path)
	i := strings.LastIndexByte(lower, '.')
	if i == -1 {
		return "", false
	}
	t, ok := mimeTypes[lower[i:]]
	return t, ok
}

// lastSegment returns the final non-empty path segment, or "" for the root.
func lastSegment(path string) string {
	segs := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// isExtensionless reports whether path names something without a file
// extension (and is not the bare root).
func isExtensionless(path string) bool {
	seg := lastSegment(path)
	return seg != "" && !strings.Contains(seg, ".")
}
