package proto

// hologram service

type HologramInfo struct {
	Id      string
	Name    string
	X, Y, Z float64
	Lines   int
	Viewers int
}

type ListRequest struct {
	Id int32
}

type ListResponse struct {
	Holograms []HologramInfo
}

type InteractRequest struct {
	Id       int32
	EntityId int32
}

type InteractResponse struct {
	Hologram string
	Handled  bool
}

// player service

type PlayerState struct {
	X, Y, Z float32
	Rx, Ry  float32
}

type UpdateStateRequest struct {
	Id    int32
	State PlayerState
}

type UpdateStateResponse struct {
	Players map[int32]PlayerState
	Visible []string // ids of holograms shown to the caller
}
