// Package fetch maps remote URIs to files in a local cache directory,
// transferring bodies only when the cached copy is missing or stale.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	foundryerrors "github.com/rkuzmin/foundry/internal/errors"
)

// Logger is the sink for rendered log lines.
type Logger func(format string, args ...any)

// Options configures a Downloader. Offline forbids any network access:
// an existing cached file is trusted without validation and a missing one
// is a fatal error.
type Options struct {
	Offline bool
	Quiet   bool
	Debug   bool
	Logger  Logger

	// Client overrides the HTTP client; defaults to http.DefaultClient.
	// Timeout policy belongs to the caller, not this layer.
	Client *http.Client
}

// Downloader fetches remote resources into a local cache directory.
type Downloader struct {
	opts   Options
	client *http.Client
}

// New creates a Downloader with the given options.
func New(opts Options) *Downloader {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Downloader{opts: opts, client: client}
}

func (d *Downloader) log(format string, args ...any) {
	if d.opts.Quiet || d.opts.Logger == nil {
		return
	}
	d.opts.Logger(format, args...)
}

func (d *Downloader) debug(format string, args ...any) {
	if !d.opts.Debug {
		return
	}
	d.log(format, args...)
}

// remoteMeta holds the metadata used for the freshness check.
// A negative size or zero time means the property is unknown.
type remoteMeta struct {
	size     int64
	modified time.Time
}

// Fetch returns the path of a valid local copy of uri inside cacheDir,
// transferring or refreshing it as needed. The local file name is the final
// path segment of the URI. Supported schemes: http, https, file.
//
// Repeated calls with unchanged remote content never re-transfer the body;
// any metadata divergence triggers exactly one full re-transfer.
func (d *Downloader) Fetch(uri, cacheDir string) (string, error) {
	d.debug("download(`%s`, `%s`)", uri, cacheDir)

	u, err := url.Parse(uri)
	if err != nil {
		return "", foundryerrors.Configf("invalid resource URI %q: %v", uri, err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", foundryerrors.Configf("resource URI %q has no file name", uri)
	}
	target := filepath.Join(cacheDir, name)

	local, err := os.Stat(target)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", foundryerrors.Wrap(err, fmt.Sprintf("inspecting cached file `%s` failed", target))
		}
		if d.opts.Offline {
			return "", foundryerrors.Environmentf("offline mode requested but no local file present: `%s`", target)
		}
		if err := d.transfer(u, uri, name, target); err != nil {
			return "", err
		}
		return target, nil
	}

	// Offline with a cached copy: trust it, no validation, no network.
	if d.opts.Offline {
		return target, nil
	}

	d.log("local file already exists -- comparing properties to remote file...")
	remote, err := d.remoteStat(u)
	if err != nil {
		return "", err
	}

	if matches(local, remote) {
		d.log("local and remote file properties seem to match, using %s.", target)
		return target, nil
	}

	d.log("local file `%s` differs from remote one -- replacing it", target)
	if err := d.transfer(u, uri, name, target); err != nil {
		return "", err
	}
	return target, nil
}

// matches compares local file properties against remote metadata.
// This is a metadata check (content length, last-modified at second
// resolution), not a checksum.
func matches(local os.FileInfo, remote remoteMeta) bool {
	if remote.size < 0 && remote.modified.IsZero() {
		return false
	}
	if remote.size >= 0 && remote.size != local.Size() {
		return false
	}
	if !remote.modified.IsZero() {
		localMod := local.ModTime().Truncate(time.Second)
		if !remote.modified.Truncate(time.Second).Equal(localMod) {
			return false
		}
	}
	return true
}

// transfer copies the full remote body to target, overwriting any existing
// file, and stamps the local copy with the remote modification time so later
// freshness checks can match.
func (d *Downloader) transfer(u *url.URL, uri, name, target string) error {
	d.log("transferring `%s`...", uri)

	body, meta, err := d.remoteOpen(u)
	if err != nil {
		return err
	}
	defer body.Close()

	f, err := os.Create(target)
	if err != nil {
		return foundryerrors.Wrap(err, fmt.Sprintf("creating `%s` failed", target))
	}

	written, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return foundryerrors.Wrap(err, fmt.Sprintf("transferring `%s` failed", uri))
	}

	if !meta.modified.IsZero() {
		// Best effort: a failed stamp only costs one extra transfer later.
		_ = os.Chtimes(target, time.Now(), meta.modified)
	}

	d.log("`%s` downloaded (%d bytes).", name, written)
	return nil
}

// remoteStat retrieves remote metadata without transferring the body.
func (d *Downloader) remoteStat(u *url.URL) (remoteMeta, error) {
	switch u.Scheme {
	case "file":
		info, err := os.Stat(u.Path)
		if err != nil {
			return remoteMeta{}, foundryerrors.Wrap(err, fmt.Sprintf("inspecting `%s` failed", u))
		}
		return remoteMeta{size: info.Size(), modified: info.ModTime()}, nil
	case "http", "https":
		resp, err := d.client.Head(u.String())
		if err != nil {
			return remoteMeta{}, foundryerrors.Wrap(err, fmt.Sprintf("probing `%s` failed", u))
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return remoteMeta{}, foundryerrors.Newf("probing `%s` failed: %s", u, resp.Status)
		}
		return remoteMeta{size: resp.ContentLength, modified: headerTime(resp)}, nil
	default:
		return remoteMeta{}, foundryerrors.Configf("unsupported URI scheme %q", u.Scheme)
	}
}

// remoteOpen opens the remote body for a full transfer.
func (d *Downloader) remoteOpen(u *url.URL) (io.ReadCloser, remoteMeta, error) {
	switch u.Scheme {
	case "file":
		info, err := os.Stat(u.Path)
		if err != nil {
			return nil, remoteMeta{}, foundryerrors.Wrap(err, fmt.Sprintf("opening `%s` failed", u))
		}
		f, err := os.Open(u.Path)
		if err != nil {
			return nil, remoteMeta{}, foundryerrors.Wrap(err, fmt.Sprintf("opening `%s` failed", u))
		}
		return f, remoteMeta{size: info.Size(), modified: info.ModTime()}, nil
	case "http", "https":
		resp, err := d.client.Get(u.String())
		if err != nil {
			return nil, remoteMeta{}, foundryerrors.Wrap(err, fmt.Sprintf("requesting `%s` failed", u))
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, remoteMeta{}, foundryerrors.Newf("requesting `%s` failed: %s", u, resp.Status)
		}
		return resp.Body, remoteMeta{size: resp.ContentLength, modified: headerTime(resp)}, nil
	default:
		return nil, remoteMeta{}, foundryerrors.Configf("unsupported URI scheme %q", u.Scheme)
	}
}

// headerTime parses the Last-Modified response header; zero when absent.
func headerTime(resp *http.Response) time.Time {
	if v := resp.Header.Get("Last-Modified"); v != "" {
		if t, err := http.ParseTime(v); err == nil {
			return t
		}
	}
	return time.Time{}
}
