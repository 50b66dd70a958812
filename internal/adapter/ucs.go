/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package adapter

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexandremahdhaoui/ucsbind/internal/metrics"
	"github.com/alexandremahdhaoui/ucsbind/internal/types"
)

var (
	ErrManagedObjectNotFound = errors.New("managed object not found")
	ErrNotLoggedIn           = errors.New("not logged in to UCS manager")
	ErrUCSAPI                = errors.New("UCS manager API error")

	errUCSLogin         = errors.New("logging in to UCS manager")
	errUCSLogout        = errors.New("logging out of UCS manager")
	errUCSResolve       = errors.New("resolving managed object")
	errUCSCommit        = errors.New("committing configuration")
	errUCSRequest       = errors.New("sending request to UCS manager")
	errUCSEmptyCookie   = errors.New("UCS manager returned an empty cookie")
	errUCSUnexpectedDN  = errors.New("UCS manager returned an unexpected managed object")
	errUCSInvalidStatus = errors.New("unexpected HTTP status")
)

// --------------------------------------------------- INTERFACES --------------------------------------------------- //

// Store is the subset of the UCS manager used to read and change managed objects.
type Store interface {
	// Resolve returns the managed object located at dn.
	// It returns ErrManagedObjectNotFound if no such object exists.
	Resolve(ctx context.Context, dn string) (types.ManagedObject, error)
	// SubmitBinding stages a binding. When modifyPresent is true an existing binding is updated instead of
	// causing the commit to fail.
	SubmitBinding(ctx context.Context, binding types.Binding, modifyPresent bool) error
	// Commit sends every staged change in a single transaction.
	Commit(ctx context.Context) error
}

// UCS is a session against a UCS manager.
type UCS interface {
	Store

	// Login opens the session.
	Login(ctx context.Context) error
	// Logout closes the session. It is a no-op if the session is not open.
	Logout(ctx context.Context) error
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

const ucsAPIPath = "/nuova"

// NewUCS returns a UCS session which is not logged in yet.
// The connection address may be a bare host, a host:port pair, or a URL.
func NewUCS(conn types.Connection, httpClient *http.Client, m *metrics.Metrics) UCS {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if m == nil {
		m = metrics.NewNoop()
	}

	return &ucs{
		conn:       conn,
		endpoint:   ucsEndpoint(conn.Address),
		httpClient: httpClient,
		metrics:    m,
	}
}

// --------------------------------------------- CONCRETE IMPLEMENTATION -------------------------------------------- //

type ucs struct {
	conn       types.Connection
	endpoint   string
	httpClient *http.Client
	metrics    *metrics.Metrics

	cookie  string
	pending []configPair
}

// --------------------------------------------------- Login -------------------------------------------------------- //

func (u *ucs) Login(ctx context.Context) error {
	resp := new(aaaLoginResponse)
	if err := u.do(ctx, methodAAALogin, aaaLoginRequest{
		InName:     u.conn.Username,
		InPassword: u.conn.Password,
	}, resp); err != nil {
		return errors.Join(err, errUCSLogin)
	}

	if resp.OutCookie == "" {
		return errors.Join(errUCSEmptyCookie, errUCSLogin)
	}

	u.cookie = resp.OutCookie

	slog.DebugContext(ctx, "logged in to UCS manager",
		"endpoint", u.endpoint,
		"version", resp.OutVersion,
		"refreshPeriod", resp.OutRefreshPeriod)

	return nil
}

// --------------------------------------------------- Logout ------------------------------------------------------- //

func (u *ucs) Logout(ctx context.Context) error {
	if u.cookie == "" {
		return nil
	}

	resp := new(aaaLogoutResponse)
	err := u.do(ctx, methodAAALogout, aaaLogoutRequest{InCookie: u.cookie}, resp)

	// the cookie is unusable after a logout attempt, whatever its outcome.
	u.cookie = ""
	u.pending = nil

	if err != nil {
		return errors.Join(err, errUCSLogout)
	}

	slog.DebugContext(ctx, "logged out of UCS manager", "endpoint", u.endpoint, "status", resp.OutStatus)

	return nil
}

// --------------------------------------------------- Resolve ------------------------------------------------------ //

func (u *ucs) Resolve(ctx context.Context, dn string) (types.ManagedObject, error) {
	if u.cookie == "" {
		return types.ManagedObject{}, errors.Join(ErrNotLoggedIn, errUCSResolve)
	}

	resp := new(configResolveDnResponse)
	if err := u.do(ctx, methodConfigResolveDn, configResolveDnRequest{
		Cookie:         u.cookie,
		DN:             dn,
		InHierarchical: xmlFalse,
	}, resp); err != nil {
		return types.ManagedObject{}, errors.Join(err, errUCSResolve)
	}

	if len(resp.OutConfig.MOs) == 0 {
		return types.ManagedObject{}, errors.Join(
			fmt.Errorf("dn %q", dn),
			ErrManagedObjectNotFound,
			errUCSResolve,
		)
	}

	mo := resp.OutConfig.MOs[0].managedObject()
	if mo.DN() != dn {
		return types.ManagedObject{}, errors.Join(
			fmt.Errorf("want dn %q; got dn %q", dn, mo.DN()),
			errUCSUnexpectedDN,
			errUCSResolve,
		)
	}

	return mo, nil
}

// ------------------------------------------------ SubmitBinding --------------------------------------------------- //

func (u *ucs) SubmitBinding(_ context.Context, binding types.Binding, modifyPresent bool) error {
	status := statusCreated
	if modifyPresent {
		status = statusCreatedModified
	}

	pair := configPair{
		Key: binding.DN(),
		MO:  newXMLMO(binding.ManagedObject().WithAttr(types.AttrStatus, status)),
	}

	// a later change to the same dn replaces the staged one.
	for i := range u.pending {
		if u.pending[i].Key == pair.Key {
			u.pending[i] = pair
			return nil
		}
	}

	u.pending = append(u.pending, pair)

	return nil
}

// --------------------------------------------------- Commit ------------------------------------------------------- //

func (u *ucs) Commit(ctx context.Context) error {
	if len(u.pending) == 0 {
		return nil
	}

	if u.cookie == "" {
		return errors.Join(ErrNotLoggedIn, errUCSCommit)
	}

	pairs := u.pending
	u.pending = nil

	resp := new(configConfMosResponse)
	if err := u.do(ctx, methodConfigConfMos, configConfMosRequest{
		Cookie:         u.cookie,
		InHierarchical: xmlFalse,
		Pairs:          pairs,
	}, resp); err != nil {
		return errors.Join(err, errUCSCommit)
	}

	for _, pair := range resp.Pairs {
		slog.DebugContext(ctx, "committed managed object", "dn", pair.Key, "class", pair.MO.XMLName.Local)
	}

	return nil
}

// --------------------------------------------- UTILS -------------------------------------------------------------- //

type apiResponse interface {
	err() error
}

// do posts req to the UCS manager and decodes the answer into resp.
func (u *ucs) do(ctx context.Context, method string, req any, resp apiResponse) (err error) {
	start := time.Now()

	defer func() {
		result := "success"
		switch {
		case errors.Is(err, ErrUCSAPI):
			result = "api_error"
		case err != nil:
			result = "error"
		}

		u.metrics.UCSRequestDuration.WithLabelValues(method, result).Observe(time.Since(start).Seconds())
	}()

	body, err := xml.Marshal(req)
	if err != nil {
		return errors.Join(err, errUCSRequest)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Join(err, errUCSRequest)
	}

	httpReq.Header.Set("Content-Type", "application/xml")

	httpResp, err := u.httpClient.Do(httpReq)
	if err != nil {
		return errors.Join(err, errUCSRequest)
	}

	defer func() { _ = httpResp.Body.Close() }()

	out, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return errors.Join(err, errUCSRequest)
	}

	if httpResp.StatusCode != http.StatusOK {
		return errors.Join(
			fmt.Errorf("method %s: got status %d", method, httpResp.StatusCode),
			errUCSInvalidStatus,
			errUCSRequest,
		)
	}

	if err := xml.Unmarshal(out, resp); err != nil {
		return errors.Join(err, errUCSRequest)
	}

	return resp.err()
}

func ucsEndpoint(address string) string {
	address = strings.TrimSuffix(address, "/")
	if !strings.Contains(address, "://") {
		address = "https://" + address
	}

	return address + ucsAPIPath
}
