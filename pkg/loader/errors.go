package loader

import "errors"

// Error panel titles.
const (
	TitleCatalog  = "Failed to Load Model Data"
	TitleTaxonomy = "Failed to Load Category Tree"
)

// LocalTip is shown under load errors to help local deployments.
const LocalTip = "Tip: point --source at a processed_data directory, a snapshot .db file, or github:owner/repo[/path]."

// LoadError is a load failure fit for the error panel: a title, a
// one-line message and the underlying cause when there is one.
type LoadError struct {
	Title   string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return e.Title + ": " + e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// AsLoadError extracts a *LoadError from err's chain. Any other non-nil
// error is wrapped under the catalog title.
func AsLoadError(err error) *LoadError {
	if err == nil {
		return nil
	}
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	return catalogError(err.Error(), err)
}

func catalogError(msg string, err error) *LoadError {
	return &LoadError{Title: TitleCatalog, Message: msg, Err: err}
}

func taxonomyError(msg string, err error) *LoadError {
	return &LoadError{Title: TitleTaxonomy, Message: msg, Err: err}
}
