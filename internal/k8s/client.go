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

// Package k8s provides utilities for creating Kubernetes clients.
package k8s

import (
	"errors"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// InClusterConfig is the string value that indicates in-cluster config should be used.
const InClusterConfig = "in-cluster"

var (
	ErrKubeconfig = errors.New("loading kubeconfig")
	ErrKubeClient = errors.New("creating kube client")
)

// NewClient creates a Kubernetes client able to read core/v1 objects.
//
// If kubeconfigPath is "in-cluster", it uses the in-cluster config. If it is empty, it follows the default loading
// rules (KUBECONFIG, then ~/.kube/config). Otherwise it loads the kubeconfig from the specified file path.
func NewClient(kubeconfigPath string) (client.Client, error) { //nolint:ireturn
	restConfig, err := NewRestConfig(kubeconfigPath)
	if err != nil {
		return nil, err
	}

	scheme := runtime.NewScheme()
	if err := corev1.AddToScheme(scheme); err != nil {
		return nil, errors.Join(err, ErrKubeClient)
	}

	cl, err := client.New(restConfig, client.Options{Scheme: scheme}) //nolint:exhaustruct
	if err != nil {
		return nil, errors.Join(err, ErrKubeClient)
	}

	return cl, nil
}

// NewRestConfig creates a Kubernetes REST config from the given kubeconfig path.
func NewRestConfig(kubeconfigPath string) (*rest.Config, error) {
	var (
		restConfig *rest.Config
		err        error
	)

	switch kubeconfigPath {
	case InClusterConfig:
		restConfig, err = rest.InClusterConfig()
	case "":
		restConfig, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
			clientcmd.NewDefaultClientConfigLoadingRules(),
			&clientcmd.ConfigOverrides{}, //nolint:exhaustruct
		).ClientConfig()
	default:
		restConfig, err = clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	}

	if err != nil {
		return nil, errors.Join(err, ErrKubeconfig)
	}

	return restConfig, nil
}
