package request

type PassengerRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	Age        int    `json:"age" validate:"required,min=1,max=120"`
	Gender     string `json:"gender" validate:"required,oneof=male female other"`
	SeatNumber string `json:"seat_number" validate:"required"`
}

type CreateBookingRequest struct {
	JourneyID   string             `json:"journey_id" validate:"required,uuid4"`
	SeatNumbers []string           `json:"seat_numbers" validate:"required,min=1,unique,dive,required"`
	Passengers  []PassengerRequest `json:"passengers" validate:"required,min=1,dive"`
}
