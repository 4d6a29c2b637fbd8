package models

import "time"

type LoginLog struct {
	ID         int        `json:"id"`
	UserID     *int       `json:"user_id,omitempty"`     // admin/operator login
	CustomerID *int       `json:"customer_id,omitempty"` // portal login
	LoginTime  time.Time  `json:"login_time"`
	LogoutTime *time.Time `json:"logout_time,omitempty"`
	IPAddress  string     `json:"ip_address,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
