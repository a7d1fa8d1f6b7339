// Package cpu implements the processor, memory, and assembler for the golc3
// 16-bit virtual machine.
//
// The machine has eight general-purpose registers (R0-R7), a program counter,
// and a condition-flags register holding exactly one of the positive, zero,
// or negative flags. Memory is a flat 65536-word array with two addresses
// mapped to the keyboard status and data registers. Programs are loaded from
// big-endian object images and executed by a fetch-decode-execute loop;
// console I/O happens through trap routines.
//
// The assembler provides the machine's assembly dialect, supporting labels,
// equates, storage directives, and compile-time expression evaluation.
package cpu
