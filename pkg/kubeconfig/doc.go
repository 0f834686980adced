// Copyright (c) 2023 Volvo Car Corporation
// SPDX-License-Identifier: Apache-2.0

/*
Package kubeconfig models the kubeconfig documents kubecred hands to kubectl.

It allows you to :

  - [Parse] a whole kubeconfig supplied as a credential
  - [Merge] credential fragments and documents into one config
  - [Config.Marshal] a config into canonical, byte-for-byte reproducible YAML
  - [Verify] that the rendered bytes load the way kubectl loads them

Writing the result to disk is left to the caller (see package kubewrap), as a
kubecred kubeconfig only ever lives in a temporary file.
*/
package kubeconfig
