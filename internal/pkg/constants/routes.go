package constants

// Page routes
const (
	RouteHome           = "/"
	RouteRegister       = "/registrar"
	RouteLogin          = "/login"
	RouteLogout         = "/logout"
	RoutePremium        = "/area-premium"
	RouteCheckout       = "/comprar"
	RoutePaymentSuccess = "/pagamento_sucesso"
	RoutePaymentFailure = "/pagamento_erro"
	RoutePaymentPending = "/pagamento_pendente"
	RouteNotification   = "/notificacao"
	RouteHealth         = "/healthz"
	RouteMetrics        = "/metrics"
)
