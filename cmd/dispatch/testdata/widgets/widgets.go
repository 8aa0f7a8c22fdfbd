// Copyright 2025 The Rivaas Authors
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

package widgets

import "context"

//dispatch:route GET /widgets/{id:\d+} name=widgets.show cast=id:int matched=auth deps=db
func Show(ctx context.Context) {}

//dispatch:route POST /widgets name=widgets.create secure terminated=audit description="Create a widget"
func Create(ctx context.Context) {}

//dispatch:route GET /health name=health
func Health(ctx context.Context) {}

//dispatch:command make:widget {name} {kind?} default=kind:plain flag=force,f description="Create a widget"
func Make(ctx context.Context) {}
