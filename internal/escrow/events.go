package escrow

// 每条被接受的消息追加一个事件，供链下对账和索引

const (
	EventDeposited          = "escrow.deposited"
	EventWithdrawn          = "escrow.withdrawn"
	EventJettonAwarded      = "escrow.jetton_awarded"
	EventPauseToggled       = "escrow.pause_toggled"
	EventEmergencyWithdrawn = "escrow.emergency_withdrawn"
)

type Event struct {
	Type       string
	Attributes map[string]string
}
