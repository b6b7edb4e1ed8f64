package shell

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cjoudrey/gluahttp"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("taquin_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

func pushResult(L *lua.LState, r *Response, err error) int {
	if err != nil {
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	L.Push(lua.LString(r.message))
	// return number of results pushed to stack.
	return 1
}

func Load(L *lua.LState) int {
	lv := L.ToString(1)
	sc := getShell(L)
	r, err := sc.load(&shellcmd{
		cmd:  "load",
		args: strings.Split(lv, " "),
	})
	if err != nil {
		log.Err(err).Msg("error-executing-load")
	}
	return pushResult(L, r, err)
}

func Show(L *lua.LState) int {
	sc := getShell(L)
	r, err := sc.show(&shellcmd{
		cmd: "show",
	})
	if err != nil {
		log.Err(err).Msg("error-executing-show")
	}
	return pushResult(L, r, err)
}

func Moves(L *lua.LState) int {
	lv := L.ToString(1)
	sc := getShell(L)
	r, err := sc.moves(&shellcmd{
		cmd:  "moves",
		args: strings.Split(lv, " "),
	})
	if err != nil {
		log.Err(err).Msg("error-executing-moves")
	}
	return pushResult(L, r, err)
}

func Set(L *lua.LState) int {
	lv := L.ToString(1)
	sc := getShell(L)
	r, err := sc.set(&shellcmd{
		cmd:  "set",
		args: strings.Split(lv, " "),
	})
	if err != nil {
		log.Err(err).Msg("error-executing-set")
	}
	return pushResult(L, r, err)
}

// Solve runs a solve to completion before returning, unlike the
// interactive command, so scripts can use the report directly.
func Solve(L *lua.LState) int {
	lv := L.ToString(1)
	sc := getShell(L)
	cmd, err := extractFields("solve " + lv)
	if err != nil {
		log.Err(err).Msg("error-parsing-solve")
		return pushResult(L, nil, err)
	}
	r, err := sc.solveSync(cmd)
	if err != nil {
		log.Err(err).Msg("error-executing-solve")
	}
	return pushResult(L, r, err)
}

func Bench(L *lua.LState) int {
	lv := L.ToString(1)
	sc := getShell(L)
	cmd, err := extractFields("bench " + lv)
	if err != nil {
		log.Err(err).Msg("error-parsing-bench")
		return pushResult(L, nil, err)
	}
	r, err := sc.bench(cmd)
	if err != nil {
		log.Err(err).Msg("error-executing-bench")
	}
	return pushResult(L, r, err)
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	luajson.Preload(L)
	L.PreloadModule("http", gluahttp.NewHttpModule(&http.Client{}).Loader)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("taquin_shell", lsc)
	L.SetGlobal("taquin_load", L.NewFunction(Load))
	L.SetGlobal("taquin_show", L.NewFunction(Show))
	L.SetGlobal("taquin_moves", L.NewFunction(Moves))
	L.SetGlobal("taquin_set", L.NewFunction(Set))
	L.SetGlobal("taquin_solve", L.NewFunction(Solve))
	L.SetGlobal("taquin_bench", L.NewFunction(Bench))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
