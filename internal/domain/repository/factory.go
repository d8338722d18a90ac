package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	History() HistoryRepository
	Invoices() InvoiceRepository
	Notifications() NotificationRepository
}
