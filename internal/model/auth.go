package model

// 匿名设备token签发
type AuthTokenReq struct {
	DeviceId string `json:"device_id" validate:"required" label:"设备id"`
}

type AuthTokenRes struct {
	UserId    int64  `json:"user_id,string"`
	Token     string `json:"token"`
	ExpiredAt int64  `json:"expired_at"` // 过期时间戳（秒）
}
