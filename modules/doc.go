// Copyright 2025 The Tight Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package modules defines optional application modules and the loader that
// owns them.
//
// A module has a unique name and a version, and is notified when it is added
// to or removed from a [Loader]. The api, cookie, session and localize
// sub-packages provide the built-in modules; each embeds [Base].
//
//	loader := modules.NewLoader(cfg, logger)
//	if err := loader.Add(api.New()); err != nil {
//	    return err
//	}
package modules
