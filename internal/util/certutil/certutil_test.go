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

package certutil_test

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/ucsbind/internal/util/certutil"
)

func TestNewCA(t *testing.T) {
	ca, err := certutil.NewCA()
	require.NoError(t, err)

	block, rest := pem.Decode(ca.PEM())
	require.NotNil(t, block)
	assert.Empty(t, rest)
	assert.Equal(t, "CERTIFICATE", block.Type)

	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	assert.True(t, cert.IsCA)
	assert.NotNil(t, ca.Pool())
}

func TestCA_ServerCertificate(t *testing.T) {
	ca, err := certutil.NewCA()
	require.NoError(t, err)

	t.Run("DNSAndIP", func(t *testing.T) {
		tlsCert, err := ca.ServerCertificate("ucsm.lab", "127.0.0.1")
		require.NoError(t, err)
		require.Len(t, tlsCert.Certificate, 1)

		leaf, err := x509.ParseCertificate(tlsCert.Certificate[0])
		require.NoError(t, err)
		assert.Equal(t, "ucsm.lab", leaf.Subject.CommonName)
		assert.Equal(t, []string{"ucsm.lab"}, leaf.DNSNames)
		require.Len(t, leaf.IPAddresses, 1)
		assert.True(t, leaf.IPAddresses[0].Equal(net.ParseIP("127.0.0.1")))

		for _, host := range []string{"ucsm.lab", "127.0.0.1"} {
			_, err = leaf.Verify(x509.VerifyOptions{
				DNSName:   host,
				Roots:     ca.Pool(),
				KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
			})
			assert.NoError(t, err, host)
		}

		_, err = leaf.Verify(x509.VerifyOptions{DNSName: "other.lab", Roots: ca.Pool()})
		assert.Error(t, err)
	})

	t.Run("NotTrustedByAnotherCA", func(t *testing.T) {
		other, err := certutil.NewCA()
		require.NoError(t, err)

		tlsCert, err := ca.ServerCertificate("ucsm.lab")
		require.NoError(t, err)

		leaf, err := x509.ParseCertificate(tlsCert.Certificate[0])
		require.NoError(t, err)

		_, err = leaf.Verify(x509.VerifyOptions{DNSName: "ucsm.lab", Roots: other.Pool()})
		assert.Error(t, err)
	})

	t.Run("NoHosts", func(t *testing.T) {
		tlsCert, err := ca.ServerCertificate()
		assert.Error(t, err)
		assert.Equal(t, tls.Certificate{}, tlsCert)
	})
}
