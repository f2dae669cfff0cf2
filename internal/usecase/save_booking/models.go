package save_booking

// Response результат сохранения бронирования
type Response struct {
	BookingID int64
	Created   bool // false, если бронирование с этой транзакцией уже было сохранено
	Overbook  bool // true, если на интервал уже заняты все бригады
}
