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

package types

// Connection holds what is needed to open a session against a UCS manager.
type Connection struct {
	// Address is the host (and optional port) of the UCS manager.
	Address string
	// Username is the UCS manager user.
	Username string
	// Password is the password of Username.
	Password string
}
