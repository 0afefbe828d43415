package client

import (
	"context"
)

type Client interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Products(ctx context.Context, token string) (*Product, error)
	Ping(ctx context.Context) error
}

type LoginResult struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Product struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}
