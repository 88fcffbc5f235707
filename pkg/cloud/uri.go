// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

package cloud

import (
	"net/url"
	"sort"

	"github.com/brkv/brkv/pkg/backuppb"
	"github.com/cockroachdb/errors"
)

// ConsumeURL is a url.URL wrapper that lets a provider's URI parser pull
// out the query parameters it understands and then ask what, if
// anything, is left over.
type ConsumeURL struct {
	*url.URL
	q url.Values
}

// ConsumeParam returns the first value of the named query parameter and
// marks it consumed.
func (u *ConsumeURL) ConsumeParam(p string) string {
	if u.q == nil {
		u.q = u.Query()
	}
	v := u.q.Get(p)
	u.q.Del(p)
	return v
}

// RemainingQueryParams returns the parameters no parser consumed, in
// sorted order.
func (u *ConsumeURL) RemainingQueryParams() []string {
	if u.q == nil {
		u.q = u.Query()
	}
	var left []string
	for p := range u.q {
		left = append(left, p)
	}
	sort.Strings(left)
	return left
}

// ExternalStorageConfFromURI translates a storage destination URI into a
// StorageBackend configuration using the parser the scheme's provider
// registered.
func ExternalStorageConfFromURI(path string) (*backuppb.StorageBackend, error) {
	uri, err := url.Parse(path)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing external storage URI %q", path)
	}
	p, ok := uriSchemes[uri.Scheme]
	if !ok {
		return nil, errors.Newf("unsupported storage scheme: %q", uri.Scheme)
	}
	reg := implementations[p]
	if reg.parser == nil {
		return nil, errors.Newf("scheme %q has no URI parser", uri.Scheme)
	}
	return reg.parser(&ConsumeURL{URL: uri})
}

// SanitizeExternalStorageURI returns the URI with secret query
// parameters redacted, for display. The parameter stays present, just
// redacted, to make clear the value is indeed persisted internally.
func SanitizeExternalStorageURI(path string, extraParams []string) (string, error) {
	uri, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	params := uri.Query()
	for param := range params {
		if _, ok := redactedParams[param]; ok {
			params.Set(param, "redacted")
			continue
		}
		for _, p := range extraParams {
			if param == p {
				params.Set(param, "redacted")
			}
		}
	}
	uri.RawQuery = params.Encode()
	return uri.String(), nil
}
