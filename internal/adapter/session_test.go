//go:build unit

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

package adapter_test

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8stypes "k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/alexandremahdhaoui/ucsbind/internal/adapter"
	"github.com/alexandremahdhaoui/ucsbind/internal/types"
)

func TestStaticSessionProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		expected := types.Connection{Address: "10.0.0.1", Username: "admin", Password: "password"}

		actual, err := adapter.NewStaticSessionProvider(expected).Connection(ctx)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	})

	t.Run("MissingAddress", func(t *testing.T) {
		_, err := adapter.NewStaticSessionProvider(types.Connection{Username: "admin"}).Connection(ctx)
		assert.ErrorIs(t, err, adapter.ErrInvalidConnection)
		assert.ErrorIs(t, err, adapter.ErrSessionProvider)
	})
}

func TestSecretSessionProvider(t *testing.T) {
	ctx := context.Background()
	key := k8stypes.NamespacedName{Namespace: "lab", Name: "ucsm"}

	newSecret := func(data map[string]string) *corev1.Secret {
		secret := &corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{Namespace: key.Namespace, Name: key.Name},
			Data:       make(map[string][]byte),
		}

		for k, v := range data {
			secret.Data[k] = []byte(v)
		}

		return secret
	}

	t.Run("Success", func(t *testing.T) {
		cl := fake.NewClientBuilder().WithObjects(newSecret(map[string]string{
			adapter.SecretAddressKey:  "10.0.0.1",
			adapter.SecretUsernameKey: "admin",
			adapter.SecretPasswordKey: "password",
		})).Build()

		actual, err := adapter.NewSecretSessionProvider(cl, key).Connection(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.Connection{Address: "10.0.0.1", Username: "admin", Password: "password"}, actual)
	})

	t.Run("MissingKey", func(t *testing.T) {
		cl := fake.NewClientBuilder().WithObjects(newSecret(map[string]string{
			adapter.SecretAddressKey:  "10.0.0.1",
			adapter.SecretUsernameKey: "admin",
		})).Build()

		_, err := adapter.NewSecretSessionProvider(cl, key).Connection(ctx)
		assert.ErrorIs(t, err, adapter.ErrSecretKeyNotFound)
		assert.ErrorIs(t, err, adapter.ErrSessionProvider)
	})

	t.Run("SecretNotFound", func(t *testing.T) {
		cl := fake.NewClientBuilder().Build()

		_, err := adapter.NewSecretSessionProvider(cl, key).Connection(ctx)
		assert.ErrorIs(t, err, adapter.ErrSessionProvider)
		assert.NotErrorIs(t, err, adapter.ErrSecretKeyNotFound)
	})
}

const ucsmResource = `<ReservationDiagramResource Name="ucsm" FullAddress="10.0.0.1"/>`

const ucsmAttributes = `<ResourceAttribute Name="Cisco UCSM.User" Value="admin" Type="String"/>` +
	`<ResourceAttribute Name="Cisco UCSM.Password" Value="3ncrypt3d" Type="Password"/>`

// fakeCloudShell answers the CloudShell automation API for a single reservation.
type fakeCloudShell struct {
	mu sync.Mutex

	commands   []string
	resources  string // resources of the reservation
	attributes string // attributes of the UCS manager resource
}

func (f *fakeCloudShell) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	command := strings.TrimPrefix(r.URL.Path, "/ResourceManagerApiService/")
	f.commands = append(f.commands, command)

	if command != "Logon" && r.Header.Get("Authorization") != "MachineName=ucsbind;Token=t0k3n" {
		_, _ = fmt.Fprint(w, `<Response CommandName="`+command+`" Success="false"><ErrorCode>100</ErrorCode><ErrorMessage>Unauthorized</ErrorMessage></Response>`)
		return
	}

	b, _ := io.ReadAll(r.Body)

	switch command {
	case "Logon":
		var req struct {
			Username string `xml:"username"`
			Password string `xml:"password"`
			Domain   string `xml:"domainName"`
		}

		_ = xml.Unmarshal(b, &req)
		if req.Username != "owner" || req.Password != "secret" || req.Domain != "Global" {
			_, _ = fmt.Fprint(w, `<Response CommandName="Logon" Success="false"><ErrorCode>101</ErrorCode><ErrorMessage>Invalid credentials</ErrorMessage></Response>`)
			return
		}

		_, _ = fmt.Fprint(w, `<Response CommandName="Logon" Success="true"><ErrorCode>0</ErrorCode><ErrorMessage></ErrorMessage><ResponseInfo><Token Token="t0k3n"/></ResponseInfo></Response>`)
	case "GetReservationDetails":
		_, _ = fmt.Fprintf(w, `<Response CommandName="GetReservationDetails" Success="true"><ResponseInfo><ReservationDescription Id="5c6e1b2a"><Resources>%s</Resources></ReservationDescription></ResponseInfo></Response>`, f.resources)
	case "GetResourceDetails":
		_, _ = fmt.Fprintf(w, `<Response CommandName="GetResourceDetails" Success="true"><ResponseInfo Name="ucsm" Address="10.0.0.1"><ResourceAttributes>%s</ResourceAttributes></ResponseInfo></Response>`, f.attributes)
	case "DecryptPassword":
		if !strings.Contains(string(b), "<encryptedString>3ncrypt3d</encryptedString>") {
			_, _ = fmt.Fprint(w, `<Response CommandName="DecryptPassword" Success="false"><ErrorCode>102</ErrorCode><ErrorMessage>Cannot decrypt</ErrorMessage></Response>`)
			return
		}

		_, _ = fmt.Fprint(w, `<Response CommandName="DecryptPassword" Success="true"><ResponseInfo Value="password"/></Response>`)
	case "Logoff":
		_, _ = fmt.Fprint(w, `<Response CommandName="Logoff" Success="true"></Response>`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeCloudShell) set(fn func(f *fakeCloudShell)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fn(f)
}

func (f *fakeCloudShell) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.commands...)
}

func TestCloudShellSessionProvider(t *testing.T) {
	var (
		ctx    context.Context
		server *httptest.Server
		cs     *fakeCloudShell
		config adapter.CloudShellConfig
	)

	setup := func(t *testing.T) func() {
		t.Helper()

		ctx = context.Background()
		cs = &fakeCloudShell{resources: ucsmResource, attributes: ucsmAttributes}
		server = httptest.NewServer(cs)
		config = adapter.CloudShellConfig{
			ServerAddress: server.URL,
			Username:      "owner",
			Password:      "secret",
			Domain:        "Global",
			ReservationID: "5c6e1b2a",
			ResourceName:  "ucsm",
		}

		return func() {
			t.Helper()

			server.Close()
		}
	}

	t.Run("Success", func(t *testing.T) {
		defer setup(t)()

		actual, err := adapter.NewCloudShellSessionProvider(config, server.Client()).Connection(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.Connection{Address: "10.0.0.1", Username: "admin", Password: "password"}, actual)
		assert.Equal(t,
			[]string{"Logon", "GetReservationDetails", "GetResourceDetails", "DecryptPassword", "Logoff"},
			cs.calls())
	})

	t.Run("UnprefixedAttributes", func(t *testing.T) {
		defer setup(t)()

		cs.set(func(f *fakeCloudShell) {
			f.attributes = `<ResourceAttribute Name="User" Value="admin" Type="String"/>` +
				`<ResourceAttribute Name="Password" Value="3ncrypt3d" Type="Password"/>`
		})

		actual, err := adapter.NewCloudShellSessionProvider(config, server.Client()).Connection(ctx)
		require.NoError(t, err)
		assert.Equal(t, "admin", actual.Username)
	})

	t.Run("Failure", func(t *testing.T) {
		t.Run("InvalidCredentials", func(t *testing.T) {
			defer setup(t)()

			config.Password = "wrong"

			_, err := adapter.NewCloudShellSessionProvider(config, server.Client()).Connection(ctx)
			assert.ErrorIs(t, err, adapter.ErrCloudShellAPI)
			assert.ErrorIs(t, err, adapter.ErrSessionProvider)
			assert.Equal(t, []string{"Logon"}, cs.calls())
		})

		t.Run("ResourceNotInReservation", func(t *testing.T) {
			defer setup(t)()

			cs.set(func(f *fakeCloudShell) {
				f.resources = `<ReservationDiagramResource Name="switch" FullAddress="10.0.0.2"/>`
			})

			_, err := adapter.NewCloudShellSessionProvider(config, server.Client()).Connection(ctx)
			assert.ErrorIs(t, err, adapter.ErrResourceNotInReservation)
			assert.Equal(t, []string{"Logon", "GetReservationDetails", "Logoff"}, cs.calls())
		})

		t.Run("MissingPasswordAttribute", func(t *testing.T) {
			defer setup(t)()

			cs.set(func(f *fakeCloudShell) {
				f.attributes = `<ResourceAttribute Name="User" Value="admin" Type="String"/>`
			})

			_, err := adapter.NewCloudShellSessionProvider(config, server.Client()).Connection(ctx)
			assert.ErrorIs(t, err, adapter.ErrResourceAttributeNotFound)
		})
	})
}
