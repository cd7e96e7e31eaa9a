package dataset

import (
	"errors"
	"fmt"

	"github.com/go-hfdataset/hfdataset/pkg/hfhttp"
)

// baseError carries a message and an optional cause, the same
// embedding idiom the teacher's hub.HubError uses for its whole error
// hierarchy.
type baseError struct {
	Message string
	Cause   error
}

func (e *baseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *baseError) Unwrap() error { return e.Cause }

// RepoNotFoundError — spec §7: HEAD/GET 401, or x-error-code RepoNotFound.
type RepoNotFoundError struct {
	*baseError
	RepoID string
}

func newRepoNotFoundError(repoID string) *RepoNotFoundError {
	return &RepoNotFoundError{
		baseError: &baseError{Message: fmt.Sprintf("repository %q not found", repoID)},
		RepoID:    repoID,
	}
}

// GatedRepoError — spec §7: x-error-code GatedRepo.
type GatedRepoError struct {
	*baseError
	RepoID string
}

func newGatedRepoError(repoID string) *GatedRepoError {
	return &GatedRepoError{
		baseError: &baseError{Message: fmt.Sprintf("repository %q is gated; provide a token with access or request access", repoID)},
		RepoID:    repoID,
	}
}

// EntryNotFoundError — spec §7: x-error-code EntryNotFound.
type EntryNotFoundError struct {
	*baseError
	RepoID   string
	Filename string
}

func newEntryNotFoundError(repoID, filename string) *EntryNotFoundError {
	return &EntryNotFoundError{
		baseError: &baseError{Message: fmt.Sprintf("entry %q not found in repository %q", filename, repoID)},
		RepoID:    repoID,
		Filename:  filename,
	}
}

// RevisionNotFoundError — spec §7: x-error-code RevisionNotFound.
type RevisionNotFoundError struct {
	*baseError
	RepoID   string
	Revision string
}

func newRevisionNotFoundError(repoID, revision string) *RevisionNotFoundError {
	return &RevisionNotFoundError{
		baseError: &baseError{Message: fmt.Sprintf("revision %q not found for repository %q", revision, repoID)},
		RepoID:    repoID,
		Revision:  revision,
	}
}

// NetworkError — spec §7: transport failure (DNS, TCP, TLS, timeout).
type NetworkError struct {
	*baseError
}

func newNetworkError(cause error) *NetworkError {
	return &NetworkError{baseError: &baseError{Message: "network error", Cause: cause}}
}

// HTTPOtherError — spec §7: status outside [100,400) not covered above.
type HTTPOtherError struct {
	*baseError
	StatusCode int
}

func newHTTPOtherError(statusCode int) *HTTPOtherError {
	return &HTTPOtherError{
		baseError:  &baseError{Message: fmt.Sprintf("unexpected HTTP status %d", statusCode)},
		StatusCode: statusCode,
	}
}

// OfflineMissError — spec §7: offline mode, entry absent from cache.
type OfflineMissError struct {
	*baseError
}

func newOfflineMissError(url string) *OfflineMissError {
	return &OfflineMissError{baseError: &baseError{
		Message: fmt.Sprintf("offline mode is enabled and %q is not in the cache; disable offline mode or pre-populate the cache", url),
	}}
}

// NoEtagError — spec §7: response lacks both x-linked-etag and etag.
type NoEtagError struct {
	*baseError
}

func newNoEtagError(url string) *NoEtagError {
	return &NoEtagError{baseError: &baseError{Message: fmt.Sprintf("response for %q carried no etag", url)}}
}

// BadConfigError — spec §7: JSON listing/metadata fails to parse.
type BadConfigError struct {
	*baseError
}

func newBadConfigError(cause error) *BadConfigError {
	return &BadConfigError{baseError: &baseError{Message: "failed to parse response", Cause: cause}}
}

// DecodeError — spec §7: tabular decoder fails.
type DecodeError struct {
	*baseError
	Path string
}

func newDecodeError(path string, cause error) *DecodeError {
	return &DecodeError{baseError: &baseError{Message: fmt.Sprintf("failed to decode %q", path), Cause: cause}, Path: path}
}

// ArgumentError — spec §7: programmer error, detected at normalization.
// The constructors and LoadOptions normalization that detect it return
// it as an ordinary error; they do not panic. MustLoad panics on it, as it does on any error Load returns.
type ArgumentError struct {
	*baseError
}

func newArgumentError(format string, args ...interface{}) *ArgumentError {
	return &ArgumentError{baseError: &baseError{Message: fmt.Sprintf(format, args...)}}
}

// classifyHTTPError maps a response's status code and x-error-code
// header to the taxonomy in spec §7.
func classifyHTTPError(resp *hfhttp.Response, repoID, revision, filename string) error {
	code := resp.Header("x-error-code")
	switch code {
	case "RepoNotFound":
		return newRepoNotFoundError(repoID)
	case "GatedRepo":
		return newGatedRepoError(repoID)
	case "EntryNotFound":
		return newEntryNotFoundError(repoID, filename)
	case "RevisionNotFound":
		return newRevisionNotFoundError(repoID, revision)
	}

	if resp.StatusCode == 401 {
		return newRepoNotFoundError(repoID)
	}

	if resp.StatusCode < 100 || resp.StatusCode >= 400 {
		return newHTTPOtherError(resp.StatusCode)
	}
	return nil
}

// classifyDownloadError maps a failure from hfhttp.Client.Download
// through the same taxonomy classifyHTTPError applies to HEAD-probe
// failures, so a GET-stage RepoNotFound/GatedRepo/EntryNotFound/
// RevisionNotFound is reported the same way a HEAD-stage one is.
func classifyDownloadError(err error, repoID, revision, filename string) error {
	var httpErr *hfhttp.HTTPError
	if errors.As(err, &httpErr) {
		resp := &hfhttp.Response{StatusCode: httpErr.StatusCode, Headers: httpErr.Headers}
		if classified := classifyHTTPError(resp, repoID, revision, filename); classified != nil {
			return classified
		}
	}

	var netErr *hfhttp.NetworkError
	if errors.As(err, &netErr) {
		return newNetworkError(netErr.Cause)
	}

	return err
}
