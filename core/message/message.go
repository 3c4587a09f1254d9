package message

import (
	"context"
	"fmt"

	"github.com/dailyfarm/farmgate/client"
	"github.com/dailyfarm/farmgate/validate"
)

type PersonInfo struct {
	ID           int    `json:"id"`
	FullName     string `json:"full_name"`
	ProfileImage string `json:"profile_image,omitempty"`
}

type Message struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	IsRead    bool       `json:"is_read"`
	Sender    PersonInfo `json:"sender"`
	Receiver  PersonInfo `json:"receiver"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

type MessageNew struct {
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	ReceiverID int    `json:"receiver_id" validate:"required"`
}

func List(ctx context.Context, api *client.Client) ([]Message, error) {
	var out []Message
	if err := api.Get(ctx, "/messages", nil, &out); err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return out, nil
}

func Fetch(ctx context.Context, api *client.Client, id int) (Message, error) {
	var out Message
	if err := api.Get(ctx, fmt.Sprintf("/messages/%d", id), nil, &out); err != nil {
		return Message{}, fmt.Errorf("fetching message[%d]: %w", id, err)
	}
	return out, nil
}

func Send(ctx context.Context, api *client.Client, nm MessageNew) (Message, error) {
	if err := validate.Check(nm); err != nil {
		return Message{}, err
	}

	var out Message
	if err := api.Post(ctx, "/messages", nm, &out); err != nil {
		return Message{}, fmt.Errorf("sending message: %w", err)
	}
	return out, nil
}
