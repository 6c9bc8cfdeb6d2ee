package server

// Server composes the entity-specific HTTP servers into one routing surface.
type Server struct {
	SettlementServer
	TableServer
}

func NewServer(
	settlementServer SettlementServer,
	tableServer TableServer,
) Server {
	return Server{
		SettlementServer: settlementServer,
		TableServer:      tableServer,
	}
}
