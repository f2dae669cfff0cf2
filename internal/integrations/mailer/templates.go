package mailer

const confirmationTemplate = `Hi {{ .Client.FirstName }},

Your {{ .ServiceTitle }} is booked.

Booking #{{ .ID }}
Date:     {{ date .BookingDate }}
Time:     {{ .StartTime }} - {{ .EndTime }}
Duration: {{ hours .Hours }} h
Address:  {{ .Client.Address }}
{{- if .Client.Notes }}
Notes:    {{ .Client.Notes }}
{{- end }}

Deposit paid: {{ money .Deposit }}
Due on the day of cleaning: {{ money .Remaining }}

Payment reference: {{ .PaymentTransactionID }}

Thank you for choosing {{ company }}.
`

const invoiceTemplate = `{{ company }}
INVOICE for booking #{{ .ID }}

Billed to: {{ .Client.FullName }} <{{ .Client.Email }}>
Service address: {{ .Client.Address }}
Service date: {{ date .BookingDate }} {{ .StartTime }}

{{ .ServiceTitle }}: {{ hours .Hours }} h x {{ money .HourlyRate }}/h  {{ money .Subtotal }}
HST ({{ taxPercent }}%)  {{ money .Tax }}
Total  {{ money .Total }}

Deposit paid ({{ depositPercent }}%)  {{ money .Deposit }}
Balance due  {{ money .Remaining }}
`
