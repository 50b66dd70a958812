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

// Package ucsmserverfake provides a UCS manager XML API server backed by an in-memory object tree.
package ucsmserverfake

import (
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/ucsbind/internal/types"
	"github.com/alexandremahdhaoui/ucsbind/internal/util/certutil"
)

// Cookie is the session cookie handed out by the fake.
const Cookie = "1700000000/6f1a2b3c-0000-4000-8000-000000000000"

// ErrorCodeAlreadyExists is returned when creating an object which already exists.
const ErrorCodeAlreadyExists = "103"

// ServerName is a DNS name present in the certificate served by the fake.
const ServerName = "ucsm.lab"

type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
}

func (e element) attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}

	return ""
}

// Fake is a UCS manager answering aaaLogin, aaaLogout, configResolveDn and configConfMos over TLS.
type Fake struct {
	username string
	password string

	mu       sync.Mutex
	objects  map[string]types.ManagedObject
	requests []string
	failWith string

	ca     *certutil.CA
	Server *httptest.Server
}

// New starts a Fake accepting the given credentials. The server is closed when the test ends.
func New(t *testing.T, username, password string) *Fake {
	t.Helper()

	f := &Fake{
		username: username,
		password: password,
		objects:  make(map[string]types.ManagedObject),
	}

	ca, err := certutil.NewCA()
	require.NoError(t, err)

	cert, err := ca.ServerCertificate(ServerName, "127.0.0.1", "::1")
	require.NoError(t, err)

	f.ca = ca
	f.Server = httptest.NewUnstartedServer(f)
	f.Server.TLS = &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	f.Server.StartTLS()
	t.Cleanup(f.Server.Close)

	return f
}

// URL returns the base URL of the fake.
func (f *Fake) URL() string {
	return f.Server.URL
}

// Client returns an http.Client trusting the fake.
func (f *Fake) Client() *http.Client {
	return &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{RootCAs: f.ca.Pool(), MinVersion: tls.VersionTLS12},
	}}
}

// CAPEM returns the PEM encoded CA which signed the certificate of the fake.
func (f *Fake) CAPEM() []byte {
	return f.ca.PEM()
}

// With stores a managed object.
func (f *Fake) With(mo types.ManagedObject) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.objects[mo.DN()] = mo

	return f
}

// Get returns the managed object stored at dn.
func (f *Fake) Get(dn string) (types.ManagedObject, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	mo, ok := f.objects[dn]

	return mo, ok
}

// Fail makes every request but aaaLogin fail with errorCode. An empty errorCode restores normal behavior.
func (f *Fake) Fail(errorCode string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failWith = errorCode
}

// Requests returns the raw body of every request received.
func (f *Fake) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.requests...)
}

// LastRequest returns the raw body of the last request received.
func (f *Fake) LastRequest() string {
	requests := f.Requests()
	if len(requests) == 0 {
		return ""
	}

	return requests[len(requests)-1]
}

// ServeHTTP implements http.Handler.
func (f *Fake) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path != "/nuova" || r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	b, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.requests = append(f.requests, string(b))

	var req element
	if err := xml.Unmarshal(b, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	method := req.XMLName.Local

	if method != "aaaLogin" && f.failWith != "" {
		writeError(w, method, f.failWith, "failure")
		return
	}

	switch method {
	case "aaaLogin":
		if req.attr("inName") != f.username || req.attr("inPassword") != f.password {
			writeError(w, method, "551", "Authentication failed")
			return
		}

		_, _ = fmt.Fprintf(w,
			`<aaaLogin cookie="" response="yes" outCookie="%s" outRefreshPeriod="600" outPriv="admin" outVersion="4.2(1d)"/>`,
			Cookie)
	case "aaaLogout":
		_, _ = fmt.Fprint(w, `<aaaLogout cookie="" response="yes" outStatus="success"/>`)
	case "configResolveDn":
		if !f.checkCookie(w, method, req.attr("cookie")) {
			return
		}

		dn := req.attr("dn")
		out := ""
		if mo, ok := f.objects[dn]; ok {
			out = marshal(mo)
		}

		_, _ = fmt.Fprintf(w, `<configResolveDn dn="%s" cookie="%s" response="yes"><outConfig>%s</outConfig></configResolveDn>`,
			dn, Cookie, out)
	case "configConfMos":
		if !f.checkCookie(w, method, req.attr("cookie")) {
			return
		}

		f.confMos(w, req)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

// confMos applies every pair or none of them.
func (f *Fake) confMos(w http.ResponseWriter, req element) {
	changes := make([]types.ManagedObject, 0)

	for _, inConfigs := range req.Children {
		for _, pair := range inConfigs.Children {
			if len(pair.Children) == 0 {
				continue
			}

			mo := types.ManagedObject{Class: pair.Children[0].XMLName.Local, Attributes: make(map[string]string)}
			for _, a := range pair.Children[0].Attrs {
				mo.Attributes[a.Name.Local] = a.Value
			}

			status := mo.Attr(types.AttrStatus)
			if _, exists := f.objects[mo.DN()]; exists && !strings.Contains(status, "modified") {
				writeError(w, "configConfMos", ErrorCodeAlreadyExists, fmt.Sprintf("object %s already exists", mo.DN()))
				return
			}

			delete(mo.Attributes, types.AttrStatus)
			changes = append(changes, mo)
		}
	}

	out := new(strings.Builder)
	for _, mo := range changes {
		f.objects[mo.DN()] = mo
		_, _ = fmt.Fprintf(out, `<pair key="%s">%s</pair>`, mo.DN(), marshal(mo))
	}

	_, _ = fmt.Fprintf(w, `<configConfMos cookie="%s" response="yes"><outConfigs>%s</outConfigs></configConfMos>`,
		Cookie, out.String())
}

func (f *Fake) checkCookie(w http.ResponseWriter, method, cookie string) bool {
	if cookie != Cookie {
		writeError(w, method, "552", "Authorization required")
		return false
	}

	return true
}

func writeError(w http.ResponseWriter, method, code, descr string) {
	_, _ = fmt.Fprintf(w, `<%s cookie="" response="yes" errorCode="%s" invocationResult="unidentified-fail" errorDescr="%s"/>`,
		method, code, descr)
}

func marshal(mo types.ManagedObject) string {
	names := make([]string, 0, len(mo.Attributes))
	for name := range mo.Attributes {
		names = append(names, name)
	}

	sort.Strings(names)

	e := element{XMLName: xml.Name{Local: mo.Class}}
	for _, name := range names {
		e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: mo.Attributes[name]})
	}

	b, _ := xml.Marshal(e)

	return string(b)
}
