// Package edenred is a Go client for the Edenred card-payment gateway. It
// models the linear payment lifecycle (register card, authorize, capture or
// pay, refund) as a chain of immutable value objects and delegates all work
// to an HTTP provider that handles session-token renewal and response-error
// translation.
//
// # Architecture
//
// The payment flow follows this pattern:
//
//	Client -> Card -> Authorization -> Charge -> Refund
//
// Each stage object wraps an opaque identifier issued by the gateway and
// exposes only the operations valid at that stage. Amounts cross the API as
// exact decimals and travel the wire as integer minor units.
//
// # Quick Start
//
// Basic usage example:
//
//	package main
//
//	import (
//	    "context"
//
//	    "github.com/shopspring/decimal"
//
//	    "github.com/gomexpay/edenred/provider/edenred"
//	)
//
//	func main() {
//	    client, err := edenred.NewClient(edenred.Config{
//	        ClientID:      "my-client-id",
//	        ClientSecret:  "my-client-secret",
//	        PublicKeyPath: "/etc/edenred/public.pem",
//	        BaseURL:       "https://api.edenred.example",
//	    })
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    ctx := context.Background()
//	    card, err := client.RegisterCard(ctx, "4111111111111111", "123", "12", "2030", "jdoe", "user-1")
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    auth, err := card.Authorize(ctx, decimal.RequireFromString("10.00"), "order 42")
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    charge, err := auth.Capture(ctx, decimal.RequireFromString("10.00"), "order 42")
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    refund, err := charge.Refund(ctx, decimal.RequireFromString("10.00"), "order 42 returned")
//	    if err != nil {
//	        panic(err)
//	    }
//	    _ = refund
//	}
//
// # Error Handling
//
// Failures split into a small taxonomy under the provider package: HTTPError
// for non-2xx transport results, TransactionError for business rejections
// the gateway reports inside a Success=false envelope, and KeyLoadError for
// unreadable public keys. Callers branch with errors.As; message text is for
// display only.
//
// # Service
//
// cmd/ contains an optional HTTP service exposing the same operations over a
// REST surface, with per-operation logging to SQLite and optional OpenSearch
// shipping.
package edenred
