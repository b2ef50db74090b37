package models

import "time"

// MembershipDays срок действия абонемента после оплаты, в днях.
const MembershipDays = 30

// Payment описывает результат записи оплаты: дату платежа и вычисленную дату окончания.
type Payment struct {
	UserID          int64     `json:"user_id"`
	LastPaymentDate time.Time `json:"last_payment_date"`
	ExpiryDate      time.Time `json:"expiry_date"`
}

// ExpiryNotice сообщение для очереди уведомлений об истекающем абонементе.
type ExpiryNotice struct {
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	ExpiryDate time.Time `json:"expiry_date"`
}
