// Command eigenruntime is the C-callable runtime library every
// EigenScript binary links against (spec §3, §4.R). It is built as a
// c-archive (see tools/buildruntime.go) rather than linked as a
// normal Go package: abi.h's struct layouts ARE the ABI the LLVM IR
// codegen (internal/codegen) emits `declare`s and `getelementptr`s
// against, so field order there must never change independently of
// §3's field table.
package main

/*
#include "abi.h"
*/
import "C"

// historyLen mirrors EIGEN_HISTORY_LEN (spec §3: "H = 100").
const historyLen = 100

func main() {}
