package room

import "github.com/draftverse/draftroom/internal/models"

type CreateRoomInput struct {
	HostID string
}

type CreateRoomOutput struct {
	Room *models.Room
}

type SaveRoomInput struct {
	Room *models.Room
}

type GetRoomInput struct {
	RoomID string
}

type GetRoomByCodeInput struct {
	Code string
}

type DeleteRoomInput struct {
	RoomID string
}

type AddPlayerInput struct {
	RoomID      string
	UserID      string
	IsSpectator bool
}

type AddPlayerOutput struct {
	Room *models.Room

	// AlreadyMember indicates the user was in the room before the call
	AlreadyMember bool
}

type RemovePlayerInput struct {
	RoomID string
	UserID string
}

type SetGameStateInput struct {
	RoomID string
	State  *models.GameState
}

type InitGameStateInput struct {
	RoomID string
	State  *models.GameState
}

type InitGameStateOutput struct {
	// Created is false when another client initialized the state first
	Created bool
}

type GetGameStateInput struct {
	RoomID string
}

type ClearGameStateInput struct {
	RoomID string
}
