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
	"context"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	k8stypes "k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/alexandremahdhaoui/ucsbind/internal/types"
)

const (
	SecretAddressKey  = "address"
	SecretUsernameKey = "username"
	SecretPasswordKey = "password"
)

var (
	ErrSecretKeyNotFound = errors.New("secret key not found")

	errGettingSecret = errors.New("getting UCS manager secret")
)

// ------------------------------------------------- SECRET PROVIDER ------------------------------------------------ //

// NewSecretSessionProvider returns a SessionProvider reading the connection from a Kubernetes Secret.
// The Secret must hold the "address", "username" and "password" keys.
func NewSecretSessionProvider(c client.Client, key k8stypes.NamespacedName) SessionProvider {
	return &secretSessionProvider{client: c, key: key}
}

type secretSessionProvider struct {
	client client.Client
	key    k8stypes.NamespacedName
}

func (p *secretSessionProvider) Connection(ctx context.Context) (types.Connection, error) {
	secret := new(corev1.Secret)
	if err := p.client.Get(ctx, p.key, secret); err != nil {
		return types.Connection{}, errors.Join(err, errGettingSecret, ErrSessionProvider)
	}

	values := make(map[string]string, 3)
	for _, k := range []string{SecretAddressKey, SecretUsernameKey, SecretPasswordKey} {
		v, ok := secret.Data[k]
		if !ok {
			return types.Connection{}, errors.Join(
				fmt.Errorf("secret %s has no key %q", p.key, k),
				ErrSecretKeyNotFound,
				ErrSessionProvider,
			)
		}

		values[k] = string(v)
	}

	conn := types.Connection{
		Address:  values[SecretAddressKey],
		Username: values[SecretUsernameKey],
		Password: values[SecretPasswordKey],
	}

	if err := validateConnection(conn); err != nil {
		return types.Connection{}, errors.Join(err, ErrSessionProvider)
	}

	return conn, nil
}
