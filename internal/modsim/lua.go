package modsim

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// LuaHandler runs a script that defines a global handle(command, argument)
// function returning the reply string, or nil and an error message.
type LuaHandler struct {
	mu    sync.Mutex
	state *lua.LState
}

// NewLuaHandler loads the script at path
func NewLuaHandler(path string) (*LuaHandler, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return newLuaHandler(L)
}

// NewLuaHandlerString loads the script from source
func NewLuaHandlerString(source string) (*LuaHandler, error) {
	L := lua.NewState()
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to load script: %w", err)
	}
	return newLuaHandler(L)
}

func newLuaHandler(L *lua.LState) (*LuaHandler, error) {
	if L.GetGlobal("handle").Type() != lua.LTFunction {
		L.Close()
		return nil, errors.New("script does not define handle(command, argument)")
	}
	return &LuaHandler{state: L}, nil
}

// Handle calls the script's handle function
func (h *LuaHandler) Handle(command, argument string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	L := h.state
	err := L.CallByParam(lua.P{
		Fn:      L.GetGlobal("handle"),
		NRet:    2,
		Protect: true,
	}, lua.LString(command), lua.LString(argument))
	if err != nil {
		return "", err
	}

	reply := L.Get(-2)
	msg := L.Get(-1)
	L.Pop(2)

	if reply == lua.LNil {
		if msg == lua.LNil {
			return "", errors.New("handle returned nil")
		}
		return "", errors.New(msg.String())
	}
	return reply.String(), nil
}

// Close releases the Lua state
func (h *LuaHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.Close()
}
