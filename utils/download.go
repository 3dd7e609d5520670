package utils

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// maxDownloadSize caps the size of a remote image.
const maxDownloadSize = 64 << 20

var httpClient = &http.Client{Timeout: 30 * time.Second}

// DownloadImage downloads the image from the internet and saves it into a temporary file.
// The caller is responsible for removing the file.
func DownloadImage(uri string) (*os.File, error) {
	res, err := httpClient.Get(uri)
	if err != nil {
		return nil, fmt.Errorf("unable to download image file from URI %s: %w", uri, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to download image file from URI %s: status %s", uri, res.Status)
	}

	tmpfile, err := os.CreateTemp("", "imgrw-*")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary file: %w", err)
	}

	n, err := io.Copy(tmpfile, io.LimitReader(res.Body, maxDownloadSize+1))
	if err != nil {
		cleanup(tmpfile)
		return nil, fmt.Errorf("unable to copy the source URI into the destination file: %w", err)
	}
	if n > maxDownloadSize {
		cleanup(tmpfile)
		return nil, fmt.Errorf("the downloaded file exceeds %s", FormatBytes(maxDownloadSize))
	}

	ctype, err := DetectContentType(tmpfile.Name())
	if err != nil {
		cleanup(tmpfile)
		return nil, err
	}

	if !IsImageContentType(ctype) {
		cleanup(tmpfile)
		return nil, fmt.Errorf("the downloaded file is not a valid image type: %s", ctype)
	}

	if _, err := tmpfile.Seek(0, io.SeekStart); err != nil {
		cleanup(tmpfile)
		return nil, err
	}
	return tmpfile, nil
}

func cleanup(f *os.File) {
	f.Close()
	os.Remove(f.Name())
}

// IsValidUrl tests a string to determine if it is a well-structured url or not.
func IsValidUrl(uri string) bool {
	_, err := url.ParseRequestURI(uri)
	if err != nil {
		return false
	}

	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

// IsImageContentType reports whether a sniffed content type denotes an image.
// SVG documents are sniffed as XML or plain text, so those are accepted as well.
func IsImageContentType(ctype string) bool {
	return strings.HasPrefix(ctype, "image/") ||
		strings.HasPrefix(ctype, "text/xml") ||
		strings.HasPrefix(ctype, "text/plain")
}

// DetectContentType detects the file type by reading MIME type information of the file content.
func DetectContentType(fname string) (string, error) {
	file, err := os.Open(fname)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("could not close the opened file: %v", err)
		}
	}()

	// Only the first 512 bytes are used to sniff the content type.
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	// Always returns a valid content-type and "application/octet-stream" if no others seemed to match.
	return http.DetectContentType(buffer[:n]), nil
}
