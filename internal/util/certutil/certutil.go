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

// Package certutil issues throwaway certificates for servers standing in for a UCS manager.
package certutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"net"
	"time"
)

// Inspired from: https://github.com/madflojo/testcerts/blob/main/testcerts.go

const organization = "ucsbind test CA"

var (
	ErrGenerateKey       = errors.New("generating private key")
	ErrCreateCertificate = errors.New("creating certificate")

	errCreateCA          = errors.New("creating CA")
	errCreateServerCert  = errors.New("creating server certificate")
	errNoHostsSpecified  = errors.New("at least one host must be specified")
	errMarshalPrivateKey = errors.New("marshalling private key")
)

// ------------------------------------------------------- CA ------------------------------------------------------- //

// CA is a certificate authority valid for a couple of hours.
type CA struct {
	key  *ecdsa.PrivateKey
	cert *x509.Certificate
	pool *x509.CertPool
}

// NewCA creates a self-signed CA.
func NewCA() (*CA, error) {
	template := &x509.Certificate{
		Subject:               pkix.Name{Organization: []string{organization}, CommonName: organization},
		SerialNumber:          big.NewInt(1),
		NotBefore:             time.Now().Add(-1 * time.Hour),
		NotAfter:              time.Now().Add(2 * time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, errors.Join(err, ErrGenerateKey, errCreateCA)
	}

	raw, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	if err != nil {
		return nil, errors.Join(err, ErrCreateCertificate, errCreateCA)
	}

	cert, err := x509.ParseCertificate(raw)
	if err != nil {
		return nil, errors.Join(err, ErrCreateCertificate, errCreateCA)
	}

	pool := x509.NewCertPool()
	pool.AddCert(cert)

	return &CA{key: key, cert: cert, pool: pool}, nil
}

// Pool returns a cert pool holding only the CA.
func (ca *CA) Pool() *x509.CertPool {
	return ca.pool
}

// PEM returns the CA certificate in PEM format.
func (ca *CA) PEM() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: ca.cert.Raw})
}

// ------------------------------------------------- Server certificate --------------------------------------------- //

// ServerCertificate issues a serving certificate for hosts. Hosts parsing as IP addresses become IP SANs, the
// others DNS SANs. The first host is used as common name.
func (ca *CA) ServerCertificate(hosts ...string) (tls.Certificate, error) {
	if len(hosts) == 0 {
		return tls.Certificate{}, errors.Join(errNoHostsSpecified, errCreateServerCert)
	}

	template := &x509.Certificate{
		Subject:      pkix.Name{Organization: []string{organization}, CommonName: hosts[0]},
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		NotBefore:    time.Now().Add(-1 * time.Hour),
		NotAfter:     time.Now().Add(2 * time.Hour),
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	for _, host := range hosts {
		if ip := net.ParseIP(host); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
			continue
		}

		template.DNSNames = append(template.DNSNames, host)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, errors.Join(err, ErrGenerateKey, errCreateServerCert)
	}

	raw, err := x509.CreateCertificate(rand.Reader, template, ca.cert, key.Public(), ca.key)
	if err != nil {
		return tls.Certificate{}, errors.Join(err, ErrCreateCertificate, errCreateServerCert)
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return tls.Certificate{}, errors.Join(err, errMarshalPrivateKey, errCreateServerCert)
	}

	return tls.X509KeyPair(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: raw}),
		pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER}),
	)
}
