package client

const (
	// API version prefix
	apiV1Prefix = "/api/v1"

	// Authentication endpoints
	endpointLogin    = apiV1Prefix + "/auth/login"
	endpointRegister = apiV1Prefix + "/auth/register"

	// Conversation endpoints
	endpointConversations      = apiV1Prefix + "/conversations"             // GET, POST
	endpointConversationByID   = apiV1Prefix + "/conversations/%s"          // GET, PATCH, DELETE
	endpointConversationMsgs   = apiV1Prefix + "/conversations/%s/messages" // GET
	endpointConversationSocket = apiV1Prefix + "/conversations/%s/ws"       // GET (websocket upgrade)
	endpointChat               = apiV1Prefix + "/chat"                      // POST
	endpointGenerations        = apiV1Prefix + "/generations"               // GET, POST
	endpointGenerationByID     = apiV1Prefix + "/generations/%s"            // GET
	endpointGenerationCancel   = apiV1Prefix + "/generations/%s/cancel"     // POST
	endpointGenerationStats    = apiV1Prefix + "/generations/stats"         // GET
	endpointAlgorithms         = apiV1Prefix + "/algorithms"                // GET
	endpointCreditBalance      = apiV1Prefix + "/credits/balance"           // GET
	endpointCreditHistory      = apiV1Prefix + "/credits/history"           // GET
	endpointCreditPackages     = apiV1Prefix + "/credits/packages"          // GET
	endpointCreditPurchase     = apiV1Prefix + "/credits/purchase"          // POST
)
