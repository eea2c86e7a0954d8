package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dangerclosesec/liaison/sdk/client"
	"github.com/dangerclosesec/liaison/sdk/optimistic"
)

func main() {
	c := client.NewClient(&client.Config{
		BaseURL: getEnv("LIAISON_URL", "http://localhost:8080"),
		Token:   os.Getenv("LIAISON_TOKEN"),
		Timeout: 10 * time.Second,
	})

	ctx := context.Background()
	requests := c.ClientRequests()

	// Example 1: optimistic create and update of client requests
	fmt.Println("Example 1: Client requests")

	store := optimistic.NewStore[client.ClientRequest](optimistic.StoreConfig[client.ClientRequest]{
		Fetch: requests.List,
		Mutate: func(ctx context.Context, a optimistic.Action[client.ClientRequest]) error {
			p := a.Payload
			input := client.NewClientRequest{
				ProductID:      p.ProductID,
				IsArchived:     p.IsArchived,
				IsFavorite:     p.IsFavorite,
				Email:          p.Email,
				Counter:        p.Counter,
				Fields:         p.Fields,
				ImportanceType: p.ImportanceType,
			}

			var err error
			switch a.Type {
			case optimistic.ActionCreate:
				_, err = requests.Create(ctx, input)
			case optimistic.ActionUpdate:
				_, err = requests.Update(ctx, p.ID, client.UpdateClientRequest{ID: p.ID, NewClientRequest: input})
			case optimistic.ActionDelete:
				_, err = requests.Delete(ctx, p.ID)
			}
			return err
		},
	})

	if err := store.Refresh(ctx); err != nil {
		log.Fatalf("Failed to load client requests: %v", err)
	}
	fmt.Printf("Loaded %d client requests\n", len(store.Items()))

	err := store.Dispatch(ctx, optimistic.Action[client.ClientRequest]{
		Type: optimistic.ActionCreate,
		Payload: client.ClientRequest{
			ID:             "pending",
			ProductID:      "P1",
			ImportanceType: "HIGH",
		},
	})
	if err != nil {
		report(err)
	}
	fmt.Printf("Now showing %d client requests\n", len(store.Items()))

	// false is a zero value, so the key has to be named to be applied
	if current := store.Items(); len(current) > 0 && current[0].IsArchived {
		cr := current[0]
		cr.IsArchived = false
		if err := store.Dispatch(ctx, optimistic.UpdateAction(cr, "isArchived")); err != nil {
			report(err)
		}
	}

	// Example 2: forwarding a request with references resolved locally
	fmt.Println("\nExample 2: Liaison requests")

	companies, err := c.Companies().List(ctx)
	if err != nil {
		log.Fatalf("Failed to load companies: %v", err)
	}

	items := store.Items()
	if len(items) == 0 || len(companies) == 0 {
		fmt.Println("Nothing to forward")
		return
	}

	forward := optimistic.NewStore[client.LiaisonRequest](optimistic.StoreConfig[client.LiaisonRequest]{
		Fetch: c.LiaisonRequests().List,
		Mutate: func(ctx context.Context, a optimistic.Action[client.LiaisonRequest]) error {
			if a.Type != optimistic.ActionCreate {
				return fmt.Errorf("unsupported action %s", a.Type)
			}
			_, err := c.LiaisonRequests().Create(ctx, client.NewLiaisonRequest{
				OriginatingClientRequestID: a.Payload.OriginatingClientRequestID,
				ForwardedToSupplierID:      a.Payload.ForwardedToSupplierID,
				Notes:                      a.Payload.Notes,
			})
			return err
		},
		Decorate: optimistic.DecorateLiaisonRequest(items, companies),
	})

	err = forward.Dispatch(ctx, optimistic.Action[client.LiaisonRequest]{
		Type: optimistic.ActionCreate,
		Payload: client.LiaisonRequest{
			ID:                         "pending",
			OriginatingClientRequestID: items[0].ID,
			ForwardedToSupplierID:      companies[0].ID,
			Notes:                      "Please quote 500 units",
		},
	})
	if err != nil {
		report(err)
		return
	}

	for _, lr := range forward.Items() {
		fmt.Printf("Liaison request %s forwards %s\n", lr.ID, lr.OriginatingClientRequestID)
	}
}

func report(err error) {
	var apiErr *client.APIError
	var resErr *optimistic.ResolutionError

	switch {
	case errors.As(err, &apiErr):
		fmt.Printf("Server rejected the change (%d): %s\n", apiErr.StatusCode, apiErr.Message)
		for field, msgs := range apiErr.Fields {
			fmt.Printf("  %s: %v\n", field, msgs)
		}
	case errors.As(err, &resErr):
		fmt.Printf("Cannot show the change: %v\n", resErr)
	default:
		fmt.Printf("Error: %v\n", err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
