/*
Package tendril is a thin typing and dispatch layer for remote HTTP endpoints.

Declare an endpoint once and you get three correlated action labels
(request, success, failure), a Call factory producing a dispatchable call
action, and a generic worker that performs the HTTP call and publishes the
result on an action bus.

# Concept

Every call invocation follows the same three-action pattern: the worker emits
exactly one Request action, performs the call raced against a fixed timeout,
and emits at most one terminal action. Status codes below 400 become Success
with the decoded JSON body; 400 and above become Failure with the decoded
error body; transport and decode errors become Failure with an empty payload.
If the timeout wins the race, nothing is emitted at all: the invocation is
dropped silently and is only visible to lifecycle hooks and metrics.

Invocations run concurrently, one goroutine each. Ordering is guaranteed
within an invocation (Request strictly precedes its terminal action), never
across invocations.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/tendril"
		"github.com/aretw0/tendril/pkg/registry"
	)

	type loginReq struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	type loginResp struct {
		Score int `json:"score"`
	}

	func main() {
		d, err := tendril.New("https://api.example.com")
		if err != nil {
			log.Fatal(err)
		}

		login, err := registry.Post[loginReq, loginResp](d.Registry(), "login", "/login")
		if err != nil {
			log.Fatal(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		d.Attach(ctx)

		act, err := d.Execute(ctx, login.Call(loginReq{Username: "a", Password: "b"}))
		if err != nil {
			log.Fatal(err)
		}

		if resp, ok, _ := login.Success(act); ok {
			log.Printf("score: %d", resp.Score)
		}
	}

Endpoints can also be loaded from an OpenAPI document (pkg/adapters/openapi)
or a YAML manifest (pkg/adapters/manifest), and every emitted action can be
recorded in a journal (pkg/adapters/memory, pkg/adapters/redis).
*/
package tendril
