package nearclient

import (
	"encoding/json"
	"fmt"
)

const (
	jsonRPCVersion        = "2.0"
	queryMethod           = "query"
	requestTypeCallFunc   = "call_function"
	finalityFinal         = "final"
	methodGetFarmerSeed   = "get_farmer_seed"
	methodFtBalanceOf     = "ft_balance_of"
	errorNameHandlerError = "HANDLER_ERROR"
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Method  string          `json:"method"`
	Params  callFuncRequest `json:"params"`
}

type callFuncRequest struct {
	RequestType string `json:"request_type"`
	Finality    string `json:"finality"`
	AccountID   string `json:"account_id"`
	MethodName  string `json:"method_name"`
	ArgsBase64  string `json:"args_base64"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  *callFuncResult `json:"result"`
	Error   *RPCError       `json:"error"`
}

type callFuncResult struct {
	// RawResult is the json returned by the contract as a list of bytes
	RawResult   []int    `json:"result"`
	Logs        []string `json:"logs"`
	BlockHeight uint64   `json:"block_height"`
	BlockHash   string   `json:"block_hash"`
	// Error is set by older nodes when the contract panicked
	Error string `json:"error"`
}

func (r *callFuncResult) bytes() ([]byte, error) {
	out := make([]byte, len(r.RawResult))
	for i, b := range r.RawResult {
		if b < 0 || b > 255 {
			return nil, fmt.Errorf("invalid byte %d in call result", b)
		}
		out[i] = byte(b)
	}
	return out, nil
}

// RPCError is the error object of a json-rpc response.
type RPCError struct {
	Name    string          `json:"name"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Cause   struct {
		Name string          `json:"name"`
		Info json.RawMessage `json:"info"`
	} `json:"cause"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("near rpc error %s (%s): %s", e.Name, e.Cause.Name, e.Message)
}

// ContractError means the contract rejected the call. Repeating it will not help.
type ContractError struct {
	Contract string
	Method   string
	Message  string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s.%s failed: %s", e.Contract, e.Method, e.Message)
}

type farmerSeedArgs struct {
	FarmerID string `json:"farmer_id"`
	SeedID   string `json:"seed_id"`
}

type ftBalanceOfArgs struct {
	AccountID string `json:"account_id"`
}
